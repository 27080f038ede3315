package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/locator/provider"
	"github.com/kbukum/locator/session"
)

// Tenant is the session of the demo. Tokens carry it; the role is payload
// and does not affect the slot.
type Tenant struct {
	ID   string
	Role string
}

// Key implements session.Session.
func (t Tenant) Key() any { return t.ID }

// Catalog is built once per tenant and kept while other tenants are active.
// Only the active flag changes after make; session switches flip it while
// handlers may be rendering the catalog.
type Catalog struct {
	ID        string
	Tenant    string
	Items     []string
	CreatedAt time.Time
	active    atomic.Bool
}

// Active reports whether the catalog's tenant is the current session.
func (c *Catalog) Active() bool { return c.active.Load() }

// MarshalJSON renders the catalog with a snapshot of the active flag.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string    `json:"id"`
		Tenant    string    `json:"tenant"`
		Items     []string  `json:"items"`
		CreatedAt time.Time `json:"created_at"`
		Active    bool      `json:"active"`
	}{c.ID, c.Tenant, c.Items, c.CreatedAt, c.Active()})
}

// catalogFactory is a tenant-scoped AtOne factory. Guests' catalogs are
// dropped on deactivation and rebuilt when the guest returns.
func catalogFactory() provider.SessionFuncs[Tenant, *Catalog] {
	return provider.SessionFuncs[Tenant, *Catalog]{
		Mode: provider.AtOne,
		Make: func(t Tenant) (*Catalog, error) {
			if t.ID == "" {
				return nil, errors.New("catalog: empty tenant")
			}
			c := &Catalog{
				ID:        uuid.NewString(),
				Tenant:    t.ID,
				Items:     []string{t.ID + "-basic", t.ID + "-pro"},
				CreatedAt: time.Now().UTC(),
			}
			c.active.Store(true)
			return c, nil
		},
		Activate: func(c *Catalog, _ Tenant) { c.active.Store(true) },
		Deactivate: func(c *Catalog, t Tenant) bool {
			c.active.Store(false)
			return t.Role != roleGuest
		},
	}
}

// Clock is process-wide and made on first use.
type Clock struct {
	Started time.Time `json:"started"`
}

// Uptime returns the time since the clock was made.
func (c *Clock) Uptime() time.Duration { return time.Since(c.Started) }

// Report is made per request from a ReportQuery and the current catalog.
type Report struct {
	Tenant string `json:"tenant"`
	Month  int    `json:"month"`
	Items  int    `json:"items"`
}

// ReportQuery parameterizes Report.
type ReportQuery struct {
	Month int
}

func reportFactory(catalogs provider.Getter[*Catalog]) provider.ParamFunc[*Report, ReportQuery] {
	return func(q ReportQuery) (*Report, error) {
		if q.Month < 1 || q.Month > 12 {
			return nil, fmt.Errorf("report: month %d out of range", q.Month)
		}
		c, err := catalogs.GetService()
		if err != nil {
			return nil, err
		}
		return &Report{Tenant: c.Tenant, Month: q.Month, Items: len(c.Items)}, nil
	}
}

// Stats counts resolves until the services are cleared.
type Stats struct {
	ID       string `json:"id"`
	resolves atomic.Int64
}

// Hit records one resolve and returns the new total.
func (s *Stats) Hit() int64 { return s.resolves.Add(1) }

func statsFactory() provider.SessionFuncs[session.Void, *Stats] {
	return provider.SessionFuncs[session.Void, *Stats]{
		Mode: provider.AtOne,
		Make: func(session.Void) (*Stats, error) { return &Stats{ID: uuid.NewString()}, nil },
	}
}

// Scratch is a large buffer kept only while a request holds it.
type Scratch struct {
	ID  string
	buf []byte
}

func newScratch() (*Scratch, error) {
	return &Scratch{ID: uuid.NewString(), buf: make([]byte, 64<<10)}, nil
}
