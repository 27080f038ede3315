package session

import (
	"sync"
	"weak"

	"github.com/google/uuid"

	"github.com/kbukum/locator/logger"
)

// Observer receives the two ordered notification passes of an update.
type Observer[S Session] interface {
	// SessionChanged runs for every observer before any MakeService call.
	SessionChanged(s S, policy RemakePolicy)
	// MakeService runs after every observer handled SessionChanged.
	MakeService()
}

// Subscription keeps an observer registered. The mediator only holds it
// weakly: once the subscription is unreachable the observer stops receiving
// updates and is pruned on the next update or subscribe.
type Subscription[S Session] struct {
	id       string
	observer Observer[S]
}

// ID returns the subscription identifier used in logs.
func (s *Subscription[S]) ID() string { return s.id }

// Option configures a Mediator.
type Option func(*options)

type options struct {
	log *logger.Logger
}

// WithLogger sets the logger used for update diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Mediator broadcasts the current session to subscribed providers.
type Mediator[S Session] struct {
	mu         sync.Mutex
	current    S
	hasCurrent bool
	subs       []weak.Pointer[Subscription[S]]
	log        *logger.Logger
}

// NewMediator creates a mediator without a current session.
func NewMediator[S Session](opts ...Option) *Mediator[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get(logger.ComponentSession)
	}
	return &Mediator[S]{log: o.log}
}

// NewMediatorWith creates a mediator whose current session is initial.
func NewMediatorWith[S Session](initial S, opts ...Option) (*Mediator[S], error) {
	if err := ValidateKey(initial); err != nil {
		return nil, err
	}
	m := NewMediator[S](opts...)
	m.current = initial
	m.hasCurrent = true
	return m, nil
}

// Current returns the current session, if any.
func (m *Mediator[S]) Current() (S, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.hasCurrent
}

// Subscribe registers o. Keep the returned subscription reachable for as
// long as o should receive updates.
func (m *Mediator[S]) Subscribe(o Observer[S]) *Subscription[S] {
	sub := &Subscription[S]{id: uuid.NewString(), observer: o}

	m.mu.Lock()
	m.pruneLocked()
	m.subs = append(m.subs, weak.Make(sub))
	m.mu.Unlock()

	return sub
}

// ObserverCount returns the number of live subscriptions.
func (m *Mediator[S]) ObserverCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	return len(m.subs)
}

// UpdateSession makes s current and notifies every live observer: all
// SessionChanged calls in registration order, then all MakeService calls.
// Observers run outside the mediator lock and may subscribe new observers;
// those join from the next update.
func (m *Mediator[S]) UpdateSession(s S, policy RemakePolicy) error {
	if err := ValidateKey(s); err != nil {
		return err
	}

	m.mu.Lock()
	m.current = s
	m.hasCurrent = true
	observers := m.snapshotLocked()
	m.mu.Unlock()

	m.log.Debug("session updated", logger.Fields(
		logger.FieldBroadcastID, uuid.NewString(),
		logger.FieldSessionKey, s.Key(),
		logger.FieldPolicy, policy.String(),
		logger.FieldObservers, len(observers),
	))

	for _, o := range observers {
		o.SessionChanged(s, policy)
	}
	for _, o := range observers {
		o.MakeService()
	}
	return nil
}

// snapshotLocked returns strong references to the live observers and
// drops dead entries. Must be called with m.mu held.
func (m *Mediator[S]) snapshotLocked() []Observer[S] {
	observers := make([]Observer[S], 0, len(m.subs))
	live := m.subs[:0]
	for _, wp := range m.subs {
		if sub := wp.Value(); sub != nil {
			live = append(live, wp)
			observers = append(observers, sub.observer)
		}
	}
	clear(m.subs[len(live):])
	m.subs = live
	return observers
}

func (m *Mediator[S]) pruneLocked() {
	live := m.subs[:0]
	for _, wp := range m.subs {
		if wp.Value() != nil {
			live = append(live, wp)
		}
	}
	clear(m.subs[len(live):])
	m.subs = live
}

// VoidMediator drives services scoped to the single Void session. Use
// ClearServices to drop and remake all of them.
type VoidMediator struct {
	*Mediator[Void]
}

// NewVoidMediator creates a mediator already holding the Void session.
func NewVoidMediator(opts ...Option) *VoidMediator {
	m := NewMediator[Void](opts...)
	m.current = Void{}
	m.hasCurrent = true
	return &VoidMediator{Mediator: m}
}

// ClearServices evicts every service bound to the mediator; AtOne services
// are remade immediately, the others on next use.
func (v *VoidMediator) ClearServices() {
	_ = v.UpdateSession(Void{}, RemakeClearAll)
}
