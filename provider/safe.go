package provider

import (
	"errors"
	"runtime"
)

// SafeProvider serializes access to a Provider. Resolved AtOne providers
// are read without locking. Session callbacks of the wrapped provider run
// under the same lock.
type SafeProvider[T any] struct {
	p       *Provider[T]
	locking Locking
	lock    locker
}

// NewSafe wraps p. Wrap a provider once; it is unsafe to keep using p
// directly from several goroutines afterwards. The lock is not reentrant:
// a factory that obtains its own provider deadlocks, and so do session
// Activate and Deactivate callbacks that call back into the provider,
// because mediator updates run them under the same lock. Callbacks that
// need the current service use GetServiceUnsafe.
func NewSafe[T any](p *Provider[T], locking Locking) *SafeProvider[T] {
	l := newLocker(locking)
	if ls, ok := p.store.(lockable); ok {
		ls.setLocker(l)
	}
	sp := &SafeProvider[T]{p: p, locking: locking, lock: l}
	if q, ok := l.(*queueLocker); ok {
		runtime.AddCleanup(sp, func(q *queueLocker) { q.stop() }, q)
	}
	return sp
}

// Mode returns the wrapped provider's mode.
func (sp *SafeProvider[T]) Mode() Mode { return sp.p.Mode() }

// Locking returns the lock strategy.
func (sp *SafeProvider[T]) Locking() Locking { return sp.locking }

// GetService is Provider.GetService under the lock.
func (sp *SafeProvider[T]) GetService() (T, error) {
	if sp.p.store.resolved() {
		return sp.p.GetService()
	}
	var (
		svc T
		err error
	)
	sp.lock.do(func() { svc, err = sp.p.GetService() })
	return svc, err
}

// TryGetService is Provider.TryGetService under the lock.
func (sp *SafeProvider[T]) TryGetService() (T, bool) {
	svc, err := sp.GetService()
	return svc, err == nil
}

// MustGetService is Provider.MustGetService under the lock. The panic is
// raised on the caller's goroutine after the lock is released.
func (sp *SafeProvider[T]) MustGetService() T {
	svc, err := sp.GetService()
	if err != nil {
		var oe *ObtainError
		if errors.As(err, &oe) {
			panic(oe.FatalMessage())
		}
		panic(err.Error())
	}
	return svc
}

// GetServiceUnsafe skips the lock.
func (sp *SafeProvider[T]) GetServiceUnsafe() (T, error) { return sp.p.GetService() }

// SessionKeys returns the wrapped provider's live session keys.
func (sp *SafeProvider[T]) SessionKeys() []any { return sp.p.SessionKeys() }
