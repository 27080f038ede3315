package provider

import "weak"

// cache holds the instance of a Lazy or Weak provider.
type cache[T any] interface {
	load() (T, bool)
	store(v T)
}

type strongCache[T any] struct {
	v  T
	ok bool
}

func (c *strongCache[T]) load() (T, bool) { return c.v, c.ok }

func (c *strongCache[T]) store(v T) {
	c.v = v
	c.ok = true
}

// weakCache does not keep its instance alive.
type weakCache[E any] struct {
	p weak.Pointer[E]
}

func (c *weakCache[E]) load() (*E, bool) {
	v := c.p.Value()
	return v, v != nil
}

func (c *weakCache[E]) store(v *E) { c.p = weak.Make(v) }

// slots holds one instance per session key.
type slots[T any] interface {
	get(key any) (T, bool)
	put(key any, v T)
	remove(key any)
	clear()
	keys() []any
}

type strongSlots[T any] map[any]T

func (s strongSlots[T]) get(key any) (T, bool) {
	v, ok := s[key]
	return v, ok
}

func (s strongSlots[T]) put(key any, v T) { s[key] = v }
func (s strongSlots[T]) remove(key any)   { delete(s, key) }
func (s strongSlots[T]) clear()           { clear(s) }

func (s strongSlots[T]) keys() []any {
	keys := make([]any, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}

// weakSlots drops entries whose instance was reclaimed.
type weakSlots[E any] map[any]weak.Pointer[E]

func (s weakSlots[E]) get(key any) (*E, bool) {
	wp, ok := s[key]
	if !ok {
		return nil, false
	}
	v := wp.Value()
	if v == nil {
		delete(s, key)
		return nil, false
	}
	return v, true
}

func (s weakSlots[E]) put(key any, v *E) { s[key] = weak.Make(v) }
func (s weakSlots[E]) remove(key any)    { delete(s, key) }
func (s weakSlots[E]) clear()            { clear(s) }

func (s weakSlots[E]) keys() []any {
	keys := make([]any, 0, len(s))
	for k, wp := range s {
		if wp.Value() != nil {
			keys = append(keys, k)
		}
	}
	return keys
}
