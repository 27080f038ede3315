package di

import (
	"reflect"

	"github.com/kbukum/locator/provider"
)

// key addresses one registration: the service type plus an optional name.
type key struct {
	service reflect.Type
	name    string
}

func keyFor[T any](name string) key {
	return key{service: provider.TypeOf[T](), name: name}
}

func (k key) String() string {
	if k.name == "" {
		return k.service.String()
	}
	return k.service.String() + "#" + k.name
}

// RegisterOption configures a registration or a lookup.
type RegisterOption func(*regOptions)

type regOptions struct {
	name string
}

// WithName selects a named registration, so several providers of the same
// type can coexist.
func WithName(name string) RegisterOption {
	return func(o *regOptions) { o.name = name }
}

func applyOptions(opts []RegisterOption) regOptions {
	o := regOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
