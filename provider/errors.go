package provider

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ObtainError reports a service that could not be obtained.
type ObtainError struct {
	// Service is the type whose construction failed.
	Service reflect.Type
	// Path lists the types being built when the failure happened,
	// outermost first. The last element is Service.
	Path []reflect.Type
	// Err is the root cause: a factory error or an *errors.AppError.
	Err error
}

// Error implements error.
func (e *ObtainError) Error() string {
	if len(e.Path) > 1 {
		return fmt.Sprintf("obtain %s (via %s): %v", typeName(e.Service), e.PathString(), e.Err)
	}
	return fmt.Sprintf("obtain %s: %v", typeName(e.Service), e.Err)
}

// Unwrap returns the root cause.
func (e *ObtainError) Unwrap() error { return e.Err }

// PathString renders Path as "Outer -> Inner".
func (e *ObtainError) PathString() string {
	names := make([]string, len(e.Path))
	for i, t := range e.Path {
		names[i] = typeName(t)
	}
	return strings.Join(names, " -> ")
}

// FatalMessage renders type, path and cause for an unrecoverable failure.
func (e *ObtainError) FatalMessage() string {
	return fmt.Sprintf("can't obtain service %s\n  path: %s\n  cause: %v",
		typeName(e.Service), e.PathString(), e.Err)
}

// wrapFor turns a failure raised while building t into an ObtainError.
// An ObtainError from a nested provider keeps its service and gets t
// prepended to its path. Its cause is kept unless the factory wrapped the
// nested error with context of its own; then the wrapping error becomes
// the cause, so the context is reported and the root cause still unwraps.
func wrapFor(t reflect.Type, err error) *ObtainError {
	var nested *ObtainError
	if errors.As(err, &nested) {
		path := make([]reflect.Type, 0, len(nested.Path)+1)
		path = append(path, t)
		path = append(path, nested.Path...)
		cause := nested.Err
		if err != error(nested) {
			cause = err
		}
		return &ObtainError{Service: nested.Service, Path: path, Err: cause}
	}
	return &ObtainError{Service: t, Path: []reflect.Type{t}, Err: err}
}

// TypeOf returns the type identity used for T in errors and registrations.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
