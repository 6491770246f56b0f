// Package maybe provides Maybe[T], an explicit present/absent container.
//
// FromNullable is the one bridge from nil-able values into the algebra. Some asserts
// presence and panics when handed nil.
package maybe

import (
	"fmt"
	"reflect"

	"hrkernel/pkg/result"
)

// Maybe is either Some(value) or None. The zero value is None.
type Maybe[T any] struct {
	value   T
	present bool
}

// Some wraps a present value. Passing a nil pointer, map, slice, channel, func or interface panics.
func Some[T any](value T) Maybe[T] {
	if isNil(value) {
		panic("maybe: Some called with a nil value")
	}
	return Maybe[T]{value: value, present: true}
}

// None returns the absent Maybe.
func None[T any]() Maybe[T] {
	return Maybe[T]{}
}

// FromNullable returns None for nil values and Some otherwise.
func FromNullable[T any](value T) Maybe[T] {
	if isNil(value) {
		return None[T]()
	}
	return Maybe[T]{value: value, present: true}
}

// FromPtr dereferences p, returning None when p is nil.
func FromPtr[T any](p *T) Maybe[T] {
	if p == nil {
		return None[T]()
	}
	return FromNullable(*p)
}

func (m Maybe[T]) IsSome() bool { return m.present }
func (m Maybe[T]) IsNone() bool { return !m.present }

// Value returns the wrapped value and panics on None.
func (m Maybe[T]) Value() T {
	if !m.present {
		panic("maybe: Value called on None")
	}
	return m.value
}

func (m Maybe[T]) GetOrElse(def T) T {
	if !m.present {
		return def
	}
	return m.value
}

func (m Maybe[T]) GetOrElseGet(supplier func() T) T {
	if !m.present {
		return supplier()
	}
	return m.value
}

// OrElse returns m when present, alternative otherwise.
func (m Maybe[T]) OrElse(alternative Maybe[T]) Maybe[T] {
	if m.present {
		return m
	}
	return alternative
}

// Filter keeps the value only if it satisfies pred.
func (m Maybe[T]) Filter(pred func(T) bool) Maybe[T] {
	if m.present && pred(m.value) {
		return m
	}
	return None[T]()
}

// ToResult converts None into a failure carrying errIfNone.
func (m Maybe[T]) ToResult(errIfNone error) result.Result[T] {
	if !m.present {
		return result.Failure[T](errIfNone)
	}
	return result.Success(m.value)
}

// Ptr returns a pointer to a copy of the value, or nil for None.
func (m Maybe[T]) Ptr() *T {
	if !m.present {
		return nil
	}
	v := m.value
	return &v
}

func (m Maybe[T]) String() string {
	if !m.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", m.value)
}

// Map applies fn to a present value. A nil result from fn yields None, and so does a
// panic raised by fn.
func Map[T, U any](m Maybe[T], fn func(T) U) (out Maybe[U]) {
	if !m.present {
		return None[U]()
	}
	defer func() {
		if p := recover(); p != nil {
			out = None[U]()
		}
	}()
	return FromNullable(fn(m.value))
}

// FlatMap chains an operation returning a Maybe.
func FlatMap[T, U any](m Maybe[T], fn func(T) Maybe[U]) Maybe[U] {
	if !m.present {
		return None[U]()
	}
	return fn(m.value)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
