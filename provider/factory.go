package provider

import "github.com/kbukum/locator/session"

// Factory makes service instances and declares how they are cached.
type Factory[T any] interface {
	Mode() Mode
	MakeService() (T, error)
}

// ParamFactory makes a new instance for every params value. Its providers
// never cache.
type ParamFactory[T, P any] interface {
	MakeService(params P) (T, error)
}

// SessionFactory makes one instance per session key.
type SessionFactory[S session.Session, T any] interface {
	// SessionMode is AtOne, Lazy or Weak.
	SessionMode() Mode
	MakeService(s S) (T, error)
	// ActivateService is called when the session returns to a slot that
	// still holds svc.
	ActivateService(svc T, s S)
	// DeactivateService is called when s stops being current. Returning
	// false drops svc so the slot is made afresh next time.
	DeactivateService(svc T, s S) bool
}

type funcFactory[T any] struct {
	mode Mode
	fn   func() (T, error)
}

func (f funcFactory[T]) Mode() Mode              { return f.mode }
func (f funcFactory[T]) MakeService() (T, error) { return f.fn() }

// NewFactory adapts fn into a Factory with the given mode.
func NewFactory[T any](mode Mode, fn func() (T, error)) Factory[T] {
	if fn == nil {
		return nil
	}
	return funcFactory[T]{mode: mode, fn: fn}
}

// ParamFunc adapts a function into a ParamFactory.
type ParamFunc[T, P any] func(params P) (T, error)

// MakeService implements ParamFactory.
func (f ParamFunc[T, P]) MakeService(params P) (T, error) { return f(params) }

// SessionFuncs adapts plain functions into a SessionFactory. A nil Activate
// does nothing and a nil Deactivate keeps the instance.
type SessionFuncs[S session.Session, T any] struct {
	Mode       Mode
	Make       func(s S) (T, error)
	Activate   func(svc T, s S)
	Deactivate func(svc T, s S) bool
}

// SessionMode implements SessionFactory.
func (f SessionFuncs[S, T]) SessionMode() Mode { return f.Mode }

// MakeService implements SessionFactory.
func (f SessionFuncs[S, T]) MakeService(s S) (T, error) { return f.Make(s) }

// ActivateService implements SessionFactory.
func (f SessionFuncs[S, T]) ActivateService(svc T, s S) {
	if f.Activate != nil {
		f.Activate(svc, s)
	}
}

// DeactivateService implements SessionFactory.
func (f SessionFuncs[S, T]) DeactivateService(svc T, s S) bool {
	if f.Deactivate == nil {
		return true
	}
	return f.Deactivate(svc, s)
}
