package catalog

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/specialistvlad/viewparams/internal/convert"
)

var errorType = reflect.TypeFor[error]()

// Property is a named accessor/mutator pair on a view type. For a parameter
// "tab" the getter is `Tab() T` and the setter `SetTab(T)` or
// `SetTab(T) error`. Either half may be missing.
type Property struct {
	Name   string
	Type   reflect.Type
	getter string
	setter string
}

// HasGetter reports whether the view exposes a readable property.
func (p *Property) HasGetter() bool { return p.getter != "" }

// HasSetter reports whether the view exposes a writable property.
func (p *Property) HasSetter() bool { return p.setter != "" }

// Get reads the live property value from view. ok is false when the property
// has no getter.
func (p *Property) Get(view any) (v any, ok bool, err error) {
	if p.getter == "" {
		return nil, false, nil
	}
	m, err := p.method(view, p.getter)
	if err != nil {
		return nil, false, err
	}
	return m.Call(nil)[0].Interface(), true, nil
}

// Set stores v into the property. nil stores the zero value. A missing
// setter makes Set a no-op.
func (p *Property) Set(view any, v any) error {
	if p.setter == "" {
		return nil
	}
	m, err := p.method(view, p.setter)
	if err != nil {
		return err
	}
	arg := reflect.Zero(p.Type)
	if v != nil {
		rv, ok := convert.Coerce(v, p.Type)
		if !ok {
			return fmt.Errorf("property %s: cannot assign %v (%T) to %s", p.Name, v, v, p.Type)
		}
		arg = rv
	}
	out := m.Call([]reflect.Value{arg})
	if len(out) == 1 && !out[0].IsNil() {
		return fmt.Errorf("property %s: %w", p.Name, out[0].Interface().(error))
	}
	return nil
}

func (p *Property) method(view any, name string) (reflect.Value, error) {
	rv := reflect.ValueOf(view)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("property %s: no view instance", p.Name)
	}
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("property %s: %s has no method %s", p.Name, rv.Type(), name)
	}
	return m, nil
}

// lookupProperty finds the property named param on viewType. It returns nil
// when the type has neither a getter nor a setter for it, and an error when
// the two disagree about the property type.
func lookupProperty(viewType reflect.Type, param string) (*Property, error) {
	if viewType == nil || param == "" {
		return nil, nil
	}
	exported := exportedName(param)
	p := &Property{Name: param}

	if m, ok := viewType.MethodByName(exported); ok && isGetter(m.Type) {
		p.getter = exported
		p.Type = m.Type.Out(0)
	}
	if m, ok := viewType.MethodByName("Set" + exported); ok && isSetter(m.Type) {
		in := m.Type.In(1)
		if p.Type != nil && p.Type != in {
			return nil, fmt.Errorf("getter %s returns %s but setter Set%s takes %s", exported, p.Type, exported, in)
		}
		p.setter = "Set" + exported
		p.Type = in
	}
	if p.Type == nil {
		return nil, nil
	}
	return p, nil
}

// Method types from reflect.Type.MethodByName include the receiver as In(0).
func isGetter(mt reflect.Type) bool {
	return mt.NumIn() == 1 && mt.NumOut() == 1
}

func isSetter(mt reflect.Type) bool {
	if mt.NumIn() != 2 {
		return false
	}
	switch mt.NumOut() {
	case 0:
		return true
	case 1:
		return mt.Out(0) == errorType
	default:
		return false
	}
}

func exportedName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
