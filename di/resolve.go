package di

import (
	"fmt"
	"reflect"

	apperrors "github.com/kbukum/locator/errors"
	"github.com/kbukum/locator/logger"
	"github.com/kbukum/locator/provider"
)

type paramGetter[T any] interface {
	GetServiceAny(params any) (T, error)
}

// Resolve returns the service registered for T.
//
// Example:
//
//	repo, err := di.Resolve[*UserRepo](loc)
//	if err != nil {
//	    return fmt.Errorf("user repo: %w", err)
//	}
func Resolve[T any](l *Locator, opts ...RegisterOption) (T, error) {
	return ResolveNamed[T](l, applyOptions(opts).name)
}

// ResolveNamed returns the service registered for T under name.
func ResolveNamed[T any](l *Locator, name string) (T, error) {
	var zero T
	k := keyFor[T](name)
	e, err := l.find(k)
	if err != nil {
		return zero, err
	}
	switch g := e.box.(type) {
	case provider.Getter[T]:
		return g.GetService()
	case paramGetter[T]:
		return zero, l.fail(k, apperrors.WrongParams(e.params.String(), "no params"))
	default:
		return zero, l.fail(k, apperrors.InvalidFactory(fmt.Sprintf("registration %s holds %T", k, e.box)))
	}
}

// ResolveWithParams returns a new instance of T made from params. A plain
// registration accepts only nil params.
func ResolveWithParams[T any](l *Locator, params any, opts ...RegisterOption) (T, error) {
	var zero T
	k := keyFor[T](applyOptions(opts).name)
	e, err := l.find(k)
	if err != nil {
		return zero, err
	}
	switch g := e.box.(type) {
	case paramGetter[T]:
		return g.GetServiceAny(params)
	case provider.Getter[T]:
		if params != nil {
			return zero, l.fail(k, apperrors.WrongParams("no params", reflect.TypeOf(params).String()))
		}
		return g.GetService()
	default:
		return zero, l.fail(k, apperrors.InvalidFactory(fmt.Sprintf("registration %s holds %T", k, e.box)))
	}
}

// MustResolve resolves T and panics with the failure's fatal message.
// Use it during wiring, where a missing service is a programming error.
func MustResolve[T any](l *Locator, opts ...RegisterOption) T {
	svc, err := Resolve[T](l, opts...)
	if err != nil {
		panic(fatalMessage(err))
	}
	return svc
}

// TryResolve resolves T, returning false instead of an error. Use it when
// a dependency is optional.
//
// Example:
//
//	if mailer, ok := di.TryResolve[*Mailer](loc); ok {
//	    mailer.Send(msg)
//	}
func TryResolve[T any](l *Locator, opts ...RegisterOption) (T, bool) {
	svc, err := Resolve[T](l, opts...)
	return svc, err == nil
}

func (l *Locator) find(k key) (*entry, error) {
	e, ok := l.lookup(k)
	if !ok {
		return nil, l.fail(k, apperrors.ServiceNotFound(k.service.String(), k.name))
	}
	return e, nil
}

func (l *Locator) fail(k key, err *apperrors.AppError) *provider.ObtainError {
	l.log.Warn("service lookup failed", logger.Fields(
		logger.FieldService, k.String(),
		logger.FieldError, err.Error(),
	))
	return &provider.ObtainError{Service: k.service, Path: []reflect.Type{k.service}, Err: err}
}

func fatalMessage(err error) string {
	if oe, ok := err.(*provider.ObtainError); ok {
		return oe.FatalMessage()
	}
	return err.Error()
}
