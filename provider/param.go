package provider

import (
	"reflect"

	apperrors "github.com/kbukum/locator/errors"
)

// ParamProvider makes a new T for every params value. It never caches.
type ParamProvider[T, P any] struct {
	factory ParamFactory[T, P]
	r       *reporter
	invalid *ObtainError
}

// NewParam builds a provider over a parameterized factory.
func NewParam[T, P any](f ParamFactory[T, P], opts ...Option) *ParamProvider[T, P] {
	p := &ParamProvider[T, P]{factory: f, r: newReporter[T](Many, opts)}
	if f == nil {
		p.invalid = p.r.frameworkError(apperrors.InvalidFactory("nil param factory"))
	}
	return p
}

// Mode is always Many.
func (p *ParamProvider[T, P]) Mode() Mode { return Many }

// ParamsType returns the params type the factory accepts.
func (p *ParamProvider[T, P]) ParamsType() reflect.Type { return TypeOf[P]() }

// GetService makes an instance for params.
func (p *ParamProvider[T, P]) GetService(params P) (T, error) {
	svc, oe := p.get(params)
	if oe != nil {
		return svc, oe
	}
	return svc, nil
}

// GetServiceAny is GetService for untyped params. A value that is not a P
// yields WRONG_PARAMS without calling the factory. A nil value is accepted
// when P admits nil and treated as the zero P.
func (p *ParamProvider[T, P]) GetServiceAny(params any) (T, error) {
	typed, ok := params.(P)
	if !ok {
		if params != nil || !nilable(TypeOf[P]()) {
			var zero T
			return zero, p.r.frameworkError(apperrors.WrongParams(typeName(TypeOf[P]()), describe(params)))
		}
	}
	return p.GetService(typed)
}

// Convert binds params into a parameterless Many provider.
func (p *ParamProvider[T, P]) Convert(params P) *Provider[T] {
	if p.invalid != nil {
		return &Provider[T]{mode: Many, store: &resolvedStorage[T]{err: p.invalid}}
	}
	return &Provider[T]{mode: Many, store: &manyStorage[T]{
		r:    p.r,
		make: func() (T, error) { return p.factory.MakeService(params) },
	}}
}

func (p *ParamProvider[T, P]) get(params P) (T, *ObtainError) {
	if p.invalid != nil {
		var zero T
		return zero, p.invalid
	}
	return makeWith(p.r, func() (T, error) { return p.factory.MakeService(params) })
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func describe(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
