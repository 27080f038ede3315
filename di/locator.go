package di

import (
	"cmp"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/provider"
)

// Locator maps service types to type-erased providers. The only downcast
// back to a typed provider happens in lookup.
type Locator struct {
	entries map[key]*entry
	mutex   sync.RWMutex
	log     *logger.Logger
	locking provider.Locking
}

type entry struct {
	key        key
	box        any
	mode       string
	params     reflect.Type
	safe       bool
	registered time.Time
}

// RegistrationInfo describes a registration for introspection.
type RegistrationInfo struct {
	Service      string
	Name         string
	Mode         string
	Params       string
	Safe         bool
	RegisteredAt time.Time
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger used for registration and lookup diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(loc *Locator) { loc.log = l }
}

// WithLocking sets the strategy RegisterSafe wraps providers with.
func WithLocking(l provider.Locking) Option {
	return func(loc *Locator) { loc.locking = l }
}

// New creates an empty locator.
func New(opts ...Option) *Locator {
	l := &Locator{entries: make(map[key]*entry), locking: provider.LockMutex}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get(logger.ComponentLocator)
	}
	return l
}

// Register binds p to T. A registration for the same type and name is
// replaced.
func Register[T any](l *Locator, p provider.Getter[T], opts ...RegisterOption) {
	o := applyOptions(opts)
	_, safe := p.(*provider.SafeProvider[T])
	l.put(&entry{key: keyFor[T](o.name), box: p, mode: modeOf(p), safe: safe})
}

// RegisterSafe wraps p with the locator's locking strategy and registers it.
func RegisterSafe[T any](l *Locator, p *provider.Provider[T], opts ...RegisterOption) *provider.SafeProvider[T] {
	sp := provider.NewSafe(p, l.locking)
	Register[T](l, sp, opts...)
	return sp
}

// RegisterParam binds a parameterized provider to T.
func RegisterParam[T, P any](l *Locator, p *provider.ParamProvider[T, P], opts ...RegisterOption) {
	o := applyOptions(opts)
	l.put(&entry{key: keyFor[T](o.name), box: p, mode: provider.Many.String(), params: p.ParamsType()})
}

func (l *Locator) put(e *entry) {
	e.registered = time.Now()

	l.mutex.Lock()
	_, replaced := l.entries[e.key]
	l.entries[e.key] = e
	l.mutex.Unlock()

	l.log.Info("service registered", logger.Fields(
		logger.FieldService, e.key.String(),
		logger.FieldMode, e.mode,
		"replaced", replaced,
	))
}

func (l *Locator) lookup(k key) (*entry, bool) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	e, ok := l.entries[k]
	return e, ok
}

// Registrations returns every registration sorted by service and name.
func (l *Locator) Registrations() []RegistrationInfo {
	l.mutex.RLock()
	result := make([]RegistrationInfo, 0, len(l.entries))
	for _, e := range l.entries {
		info := RegistrationInfo{
			Service:      e.key.service.String(),
			Name:         e.key.name,
			Mode:         e.mode,
			Safe:         e.safe,
			RegisteredAt: e.registered,
		}
		if e.params != nil {
			info.Params = e.params.String()
		}
		result = append(result, info)
	}
	l.mutex.RUnlock()

	slices.SortFunc(result, func(a, b RegistrationInfo) int {
		return cmp.Or(cmp.Compare(a.Service, b.Service), cmp.Compare(a.Name, b.Name))
	})
	return result
}

// Len returns the number of registrations.
func (l *Locator) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.entries)
}

func modeOf(p any) string {
	if m, ok := p.(interface{ Mode() provider.Mode }); ok {
		return m.Mode().String()
	}
	return "custom"
}
