package provider

import (
	"fmt"

	apperrors "github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/session"
)

// NewSession builds a provider keeping one instance per session key of m.
// AtOne factories make the current session's instance here and again after
// every session change. Weak factories need NewWeakSession.
func NewSession[S session.Session, T any](m *session.Mediator[S], f SessionFactory[S, T], opts ...Option) *Provider[T] {
	if reason := checkSession(m, f); reason != "" {
		return invalid[T](AtOne, opts, reason)
	}
	mode := f.SessionMode()
	switch mode {
	case AtOne, Lazy:
		return newSessionProvider(m, f, mode, strongSlots[T]{}, opts)
	case Weak:
		return invalid[T](mode, opts, fmt.Sprintf("weak mode needs a pointer service; build %s with NewWeakSession", typeName(TypeOf[T]())))
	default:
		return invalid[T](mode, opts, fmt.Sprintf("%s is not a session mode", mode))
	}
}

// NewWeakSession is NewSession for pointer services. Weak factories keep
// each session's instance only while something else references it.
func NewWeakSession[S session.Session, E any](m *session.Mediator[S], f SessionFactory[S, *E], opts ...Option) *Provider[*E] {
	if checkSession(m, f) != "" || f.SessionMode() != Weak {
		return NewSession(m, f, opts...)
	}
	return newSessionProvider(m, f, Weak, weakSlots[E]{}, opts)
}

func checkSession[S session.Session, T any](m *session.Mediator[S], f SessionFactory[S, T]) string {
	switch {
	case f == nil:
		return "nil session factory"
	case m == nil:
		return "nil session mediator"
	}
	if fn, ok := f.(SessionFuncs[S, T]); ok && fn.Make == nil {
		return "session factory without Make"
	}
	return ""
}

func newSessionProvider[S session.Session, T any](m *session.Mediator[S], f SessionFactory[S, T], mode Mode, s slots[T], opts []Option) *Provider[T] {
	st := &sessionStorage[S, T]{
		factory: f,
		mode:    mode,
		r:       newReporter[T](mode, opts),
		slots:   s,
		lock:    noLock{},
	}
	st.sub = m.Subscribe(st)
	if cur, ok := m.Current(); ok {
		st.current = cur
		st.hasCurrent = true
		st.MakeService()
	}
	return &Provider[T]{mode: mode, store: st}
}

// sessionStorage follows a mediator and caches per session key.
type sessionStorage[S session.Session, T any] struct {
	factory SessionFactory[S, T]
	mode    Mode
	r       *reporter
	slots   slots[T]
	sub     *session.Subscription[S]
	lock    locker

	current    S
	hasCurrent bool
	// atOneErr is the failure of the current session's AtOne make; it is
	// returned until the session changes.
	atOneErr *ObtainError
}

// SessionChanged deactivates the outgoing instance, applies policy and
// reactivates the incoming one.
func (st *sessionStorage[S, T]) SessionChanged(s S, policy session.RemakePolicy) {
	st.lock.do(func() {
		if st.hasCurrent && policy == session.RemakeNone && st.atOneErr == nil && session.SameSlot(st.current, s) {
			return
		}
		if st.hasCurrent {
			old := st.current.Key()
			if svc, ok := st.slots.get(old); ok && !st.factory.DeactivateService(svc, st.current) {
				st.slots.remove(old)
			}
		}
		switch policy {
		case session.RemakeForce:
			st.slots.remove(s.Key())
		case session.RemakeClearAll:
			st.slots.clear()
		}
		st.current = s
		st.hasCurrent = true
		st.atOneErr = nil
		if policy != session.RemakeForce {
			if svc, ok := st.slots.get(s.Key()); ok {
				st.factory.ActivateService(svc, s)
			}
		}
	})
}

// MakeService makes the current AtOne instance when its slot is empty.
func (st *sessionStorage[S, T]) MakeService() {
	if st.mode != AtOne {
		return
	}
	st.lock.do(func() {
		if !st.hasCurrent || st.atOneErr != nil {
			return
		}
		if _, ok := st.slots.get(st.current.Key()); ok {
			return
		}
		st.make()
	})
}

func (st *sessionStorage[S, T]) get() (T, *ObtainError) {
	if !st.hasCurrent {
		var zero T
		return zero, st.r.frameworkError(apperrors.NoSessionAvailable(st.r.label))
	}
	if svc, ok := st.slots.get(st.current.Key()); ok {
		return svc, nil
	}
	if st.mode == AtOne && st.atOneErr != nil {
		var zero T
		return zero, st.atOneErr
	}
	return st.make()
}

func (st *sessionStorage[S, T]) make() (T, *ObtainError) {
	cur := st.current
	svc, oe := makeWith(st.r, func() (T, error) { return st.factory.MakeService(cur) })
	if oe != nil {
		if st.mode == AtOne {
			st.atOneErr = oe
		}
		return svc, oe
	}
	st.slots.put(cur.Key(), svc)
	return svc, nil
}

func (st *sessionStorage[S, T]) resolved() bool { return false }

func (st *sessionStorage[S, T]) setLocker(l locker) { st.lock = l }

func (st *sessionStorage[S, T]) slotKeys() []any {
	var keys []any
	st.lock.do(func() { keys = st.slots.keys() })
	return keys
}
