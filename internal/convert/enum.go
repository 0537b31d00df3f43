package convert

import (
	"fmt"
	"reflect"
)

// Enum converts a closed set of values by name. The natural order of its
// values is their declaration order.
type Enum[T comparable] struct {
	typ    Type
	names  []string
	values []T
	index  map[string]int
	byVal  map[T]int
}

// NewEnum builds an enum converter for values that name themselves through
// String(), e.g. an iota-based type with a stringer.
func NewEnum[T interface {
	comparable
	fmt.Stringer
}](values ...T) *Enum[T] {
	return newEnum(TypeOf(reflect.TypeFor[T]()), values, func(v T) string { return v.String() })
}

// NewStringEnum builds an enum converter for a string-based type whose
// values are their own names.
func NewStringEnum[T ~string](values ...T) *Enum[T] {
	return newEnum(TypeOf(reflect.TypeFor[T]()), values, func(v T) string { return string(v) })
}

// NewSymbolEnum builds an enum converter under an explicit type name whose
// values are plain strings. Manifest-declared enums use it.
func NewSymbolEnum(name string, values ...string) *Enum[string] {
	return newEnum(Simple(name), values, func(v string) string { return v })
}

func newEnum[T comparable](typ Type, values []T, name func(T) string) *Enum[T] {
	e := &Enum[T]{
		typ:    typ,
		names:  make([]string, len(values)),
		values: append([]T(nil), values...),
		index:  make(map[string]int, len(values)),
		byVal:  make(map[T]int, len(values)),
	}
	for i, v := range values {
		n := name(v)
		if _, dup := e.index[n]; dup {
			panic(fmt.Sprintf("enum %s declares %q twice", typ, n))
		}
		e.names[i] = n
		e.index[n] = i
		e.byVal[v] = i
	}
	return e
}

func (e *Enum[T]) Type() Type           { return e.typ }
func (e *Enum[T]) GoType() reflect.Type { return reflect.TypeFor[T]() }

// Names lists the accepted tokens in declaration order.
func (e *Enum[T]) Names() []string { return append([]string(nil), e.names...) }

func (e *Enum[T]) String() string {
	return fmt.Sprintf("enum(%s)", e.typ)
}

// Decode returns the value named s. The empty string is absent (nil).
func (e *Enum[T]) Decode(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	i, ok := e.index[s]
	if !ok {
		return nil, decodeError(e.typ, s, fmt.Errorf("expected one of %v", e.names))
	}
	return e.values[i], nil
}

// Encode returns the name of v; nil encodes as "".
func (e *Enum[T]) Encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	i, ok := e.ordinal(v)
	if !ok {
		return "", encodeError(e.typ, v, nil)
	}
	return e.names[i], nil
}

// Compare orders values by declaration.
func (e *Enum[T]) Compare(a, b any) int {
	i, okA := e.ordinal(a)
	j, okB := e.ordinal(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return i - j
}

func (e *Enum[T]) ordinal(v any) (int, bool) {
	rv, ok := Coerce(v, e.GoType())
	if !ok {
		return 0, false
	}
	i, ok := e.byVal[rv.Interface().(T)]
	return i, ok
}
