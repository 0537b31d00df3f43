package convert

import (
	"reflect"
	"strings"
)

// Kind distinguishes the two shapes a parameter type can take.
type Kind int

const (
	// KindInvalid is the zero Kind; a Type of this kind means "not declared".
	KindInvalid Kind = iota
	// KindSimple is a single named value type such as "int64" or "Tab".
	KindSimple
	// KindCollection is a multi-valued parameter of some element type.
	KindCollection
)

// Type is a structural description of a parameter value type. Two Types are
// equal when their shapes are equal, no matter where they were constructed.
type Type struct {
	kind Kind
	name string
	elem *Type
}

// Simple returns the Type for a single value identified by name.
func Simple(name string) Type {
	return Type{kind: KindSimple, name: name}
}

// Collection returns the Type for a multi-valued parameter holding elem.
func Collection(elem Type) Type {
	e := elem
	return Type{kind: KindCollection, elem: &e}
}

// Kind reports the shape of t.
func (t Type) Kind() Kind { return t.kind }

// IsZero reports whether t is the undeclared Type.
func (t Type) IsZero() bool { return t.kind == KindInvalid }

// Name returns the name of a simple type, or "" for collections.
func (t Type) Name() string { return t.name }

// Elem returns the element type of a collection.
func (t Type) Elem() (Type, bool) {
	if t.kind != KindCollection || t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// Equals compares two types structurally.
func (t Type) Equals(other Type) bool {
	if t.kind != other.kind {
		return false
	}
	switch t.kind {
	case KindSimple:
		return t.name == other.name
	case KindCollection:
		return t.elem.Equals(*other.elem)
	default:
		return true
	}
}

// String renders t the way manifests spell it, e.g. "list(Tab)".
func (t Type) String() string {
	switch t.kind {
	case KindSimple:
		return t.name
	case KindCollection:
		return "list(" + t.elem.String() + ")"
	default:
		return "<undeclared>"
	}
}

// TypeOf maps a Go type onto a parameter Type.
//
// Named types map to their bare name (so "Tab", "int64", "Duration"), pointers
// are transparent, and unnamed slices or arrays become collections of their
// element type. A named slice type such as `type Tabs []Tab` keeps its own
// name; use ShapeOf to get its collection shape.
func TypeOf(rt reflect.Type) Type {
	if rt == nil {
		return Type{}
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() != "" {
		return Simple(rt.Name())
	}
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return Collection(TypeOf(rt.Elem()))
	default:
		return Simple(strings.TrimPrefix(rt.String(), "*"))
	}
}

// ShapeOf returns the structural collection shape of a named slice or array
// type. It reports false for anything that is not a named multi-valued type.
func ShapeOf(rt reflect.Type) (Type, bool) {
	if rt == nil {
		return Type{}, false
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return Type{}, false
	}
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return Collection(TypeOf(rt.Elem())), true
	default:
		return Type{}, false
	}
}

// TypeOfValue derives the parameter Type of a runtime value. For slices the
// element type comes from the first element when the static element type is
// an interface, so []any{Tab(1)} is a collection of Tab.
func TypeOfValue(v any) (Type, error) {
	if v == nil {
		return Type{}, ErrUntypedValue
	}
	rv := reflect.ValueOf(v)
	rt := rv.Type()
	if rt.Name() != "" {
		return TypeOf(rt), nil
	}
	if rt.Kind() != reflect.Slice && rt.Kind() != reflect.Array {
		return TypeOf(rt), nil
	}
	if rt.Elem().Kind() != reflect.Interface {
		return TypeOf(rt), nil
	}
	if rv.Len() == 0 {
		return Type{}, ErrUntypedValue
	}
	first := rv.Index(0)
	if first.IsNil() {
		return Type{}, ErrUntypedValue
	}
	return Collection(TypeOf(first.Elem().Type())), nil
}
