// Package convert maps typed parameter values to and from the string tokens
// carried in a location, and keeps the registry that resolves a converter for
// a requested parameter Type.
package convert

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrConfiguration is the root of every startup configuration error.
	ErrConfiguration = errors.New("configuration error")

	// ErrDuplicateConverter is returned when two converters claim one type.
	ErrDuplicateConverter = fmt.Errorf("%w: duplicate converter", ErrConfiguration)

	// ErrDecode marks a string that a converter could not turn into a value.
	ErrDecode = errors.New("cannot decode parameter value")

	// ErrEncode marks a value that a converter could not render.
	ErrEncode = errors.New("cannot encode parameter value")

	// ErrUntypedValue is returned when no Type can be derived from a value,
	// e.g. nil or an empty []any.
	ErrUntypedValue = errors.New("cannot determine the type of the value")
)

// Converter is a bidirectional mapping between a string token and a value.
//
// Decode of the empty string yields the converter's "absent" value (nil for
// single values, an empty collection for collections). For every value v a
// converter produced, Decode(Encode(v)) must equal v.
type Converter interface {
	// Type is the parameter Type this converter decodes to.
	Type() Type
	// GoType is the Go type of decoded values.
	GoType() reflect.Type
	Decode(s string) (any, error)
	Encode(v any) (string, error)
}

// Matcher is implemented by converters that accept more than the exact Type
// they report, for instance collections matching structurally.
type Matcher interface {
	Handles(t Type) bool
}

// Orderer is implemented by converters whose values have a natural order.
// Collections use it to serialise elements deterministically.
type Orderer interface {
	Compare(a, b any) int
}

// Handles reports whether c can serve a parameter of type t.
func Handles(c Converter, t Type) bool {
	if m, ok := c.(Matcher); ok {
		return m.Handles(t)
	}
	return c.Type().Equals(t)
}

func decodeError(t Type, s string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w %q as %s", ErrDecode, s, t)
	}
	return fmt.Errorf("%w %q as %s: %w", ErrDecode, s, t, cause)
}

func encodeError(t Type, v any, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w %v (%T) as %s", ErrEncode, v, v, t)
	}
	return fmt.Errorf("%w %v (%T) as %s: %w", ErrEncode, v, v, t, cause)
}

// Coerce converts v to goType when Go allows it; named string types and
// their underlying string interchange this way.
func Coerce(v any, goType reflect.Type) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !Compatible(rv.Type(), goType) {
		return rv, false
	}
	if rv.Type().AssignableTo(goType) {
		return rv, true
	}
	return rv.Convert(goType), true
}

// Compatible reports whether values of type from can be stored as to, either
// directly or through a conversion that keeps the kind.
func Compatible(from, to reflect.Type) bool {
	if from.AssignableTo(to) {
		return true
	}
	return from.ConvertibleTo(to) && from.Kind() == to.Kind()
}
