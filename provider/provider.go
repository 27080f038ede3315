package provider

import (
	"fmt"

	apperrors "github.com/kbukum/locator/errors"
)

// Getter is anything that hands out a T: *Provider, *SafeProvider.
type Getter[T any] interface {
	GetService() (T, error)
}

// storage is one caching strategy. resolved reports whether the state can
// never change again, so reads need no synchronization.
type storage[T any] interface {
	get() (T, *ObtainError)
	resolved() bool
}

// Provider hands out instances of T according to its factory's mode.
type Provider[T any] struct {
	mode  Mode
	store storage[T]
}

// New builds a provider for an AtOne, Lazy or Many factory. AtOne factories
// are invoked here. Weak factories need NewWeak.
func New[T any](f Factory[T], opts ...Option) *Provider[T] {
	if f == nil {
		return invalid[T](AtOne, opts, "nil factory")
	}
	mode := f.Mode()
	r := newReporter[T](mode, opts)
	switch mode {
	case AtOne:
		svc, oe := makeWith(r, f.MakeService)
		return &Provider[T]{mode: mode, store: &resolvedStorage[T]{svc: svc, err: oe}}
	case Lazy:
		return &Provider[T]{mode: mode, store: &lazyStorage[T]{r: r, make: f.MakeService, cache: &strongCache[T]{}}}
	case Many:
		return &Provider[T]{mode: mode, store: &manyStorage[T]{r: r, make: f.MakeService}}
	case Weak:
		return invalid[T](mode, opts, fmt.Sprintf("weak mode needs a pointer service; build %s with NewWeak", typeName(TypeOf[T]())))
	default:
		return invalid[T](mode, opts, fmt.Sprintf("unknown mode %s", mode))
	}
}

// NewWeak builds a provider for pointer services. Weak factories cache
// through a weak pointer; other modes behave as with New.
func NewWeak[E any](f Factory[*E], opts ...Option) *Provider[*E] {
	if f == nil || f.Mode() != Weak {
		return New(f, opts...)
	}
	r := newReporter[*E](Weak, opts)
	return &Provider[*E]{mode: Weak, store: &lazyStorage[*E]{r: r, make: f.MakeService, cache: &weakCache[E]{}}}
}

// Value wraps an existing instance as a resolved AtOne provider.
func Value[T any](svc T) *Provider[T] {
	return &Provider[T]{mode: AtOne, store: &resolvedStorage[T]{svc: svc}}
}

// invalid builds a provider that reports INVALID_FACTORY on every call.
func invalid[T any](mode Mode, opts []Option, reason string) *Provider[T] {
	r := newReporter[T](mode, opts)
	oe := r.frameworkError(apperrors.InvalidFactory(reason))
	return &Provider[T]{mode: mode, store: &resolvedStorage[T]{err: oe}}
}

// Mode returns the lifecycle mode (the session mode for session providers).
func (p *Provider[T]) Mode() Mode { return p.mode }

// GetService returns the instance for the current mode, making it if needed.
func (p *Provider[T]) GetService() (T, error) {
	svc, oe := p.store.get()
	if oe != nil {
		return svc, oe
	}
	return svc, nil
}

// TryGetService discards the error and reports whether an instance was obtained.
func (p *Provider[T]) TryGetService() (T, bool) {
	svc, oe := p.store.get()
	return svc, oe == nil
}

// MustGetService panics with the error's FatalMessage when the service
// cannot be obtained.
func (p *Provider[T]) MustGetService() T {
	svc, oe := p.store.get()
	if oe != nil {
		panic(oe.FatalMessage())
	}
	return svc
}

// SessionKeys returns the keys of the session slots currently holding an
// instance, or nil for providers that are not session scoped.
func (p *Provider[T]) SessionKeys() []any {
	if ks, ok := p.store.(interface{ slotKeys() []any }); ok {
		return ks.slotKeys()
	}
	return nil
}

// resolvedStorage is a settled AtOne result or a configuration error.
type resolvedStorage[T any] struct {
	svc T
	err *ObtainError
}

func (s *resolvedStorage[T]) get() (T, *ObtainError) { return s.svc, s.err }
func (s *resolvedStorage[T]) resolved() bool          { return true }

// lazyStorage makes on first use and caches successes only.
type lazyStorage[T any] struct {
	r     *reporter
	make  func() (T, error)
	cache cache[T]
}

func (s *lazyStorage[T]) get() (T, *ObtainError) {
	if svc, ok := s.cache.load(); ok {
		return svc, nil
	}
	svc, oe := makeWith(s.r, s.make)
	if oe != nil {
		return svc, oe
	}
	s.cache.store(svc)
	return svc, nil
}

func (s *lazyStorage[T]) resolved() bool { return false }

// manyStorage makes on every call.
type manyStorage[T any] struct {
	r    *reporter
	make func() (T, error)
}

func (s *manyStorage[T]) get() (T, *ObtainError) { return makeWith(s.r, s.make) }
func (s *manyStorage[T]) resolved() bool          { return false }
