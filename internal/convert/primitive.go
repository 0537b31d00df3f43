package convert

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyconvert "github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Primitive converts Go strings, numbers and booleans. Parsing and rendering
// go through cty so that "1640", "1.5" and "true" follow HCL's conversion
// rules, and whole-number targets reject fractional input.
type Primitive struct {
	typ     Type
	goType  reflect.Type
	ctyType cty.Type
}

// NewPrimitive builds a converter for a Go type whose kind is a string, a
// number or a bool (named types such as `type Celsius float64` included).
func NewPrimitive(goType reflect.Type) (*Primitive, error) {
	ctyType, err := gocty.ImpliedType(reflect.Zero(goType).Interface())
	if err != nil {
		return nil, fmt.Errorf("%w: %s has no primitive mapping: %w", ErrConfiguration, goType, err)
	}
	if !ctyType.IsPrimitiveType() {
		return nil, fmt.Errorf("%w: %s is not a primitive type", ErrConfiguration, goType)
	}
	return &Primitive{typ: TypeOf(goType), goType: goType, ctyType: ctyType}, nil
}

// PrimitiveFor is NewPrimitive for a type parameter. It panics on a
// non-primitive T, which is a programming error.
func PrimitiveFor[T any]() *Primitive {
	p, err := NewPrimitive(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Primitive) Type() Type           { return p.typ }
func (p *Primitive) GoType() reflect.Type { return p.goType }

func (p *Primitive) String() string {
	return fmt.Sprintf("primitive(%s)", p.goType)
}

// Decode parses s. The empty string is the absent value (nil).
func (p *Primitive) Decode(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	val, err := ctyconvert.Convert(cty.StringVal(s), p.ctyType)
	if err != nil {
		return nil, decodeError(p.typ, s, err)
	}
	out := reflect.New(p.goType)
	if err := gocty.FromCtyValue(val, out.Interface()); err != nil {
		return nil, decodeError(p.typ, s, err)
	}
	return out.Elem().Interface(), nil
}

// Encode renders v; nil renders as the empty string.
func (p *Primitive) Encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	val, err := p.toCty(v)
	if err != nil {
		return "", encodeError(p.typ, v, err)
	}
	if bits, ok := floatBits(p.goType); ok {
		f, _ := val.AsBigFloat().Float64()
		return strconv.FormatFloat(f, 'g', -1, bits), nil
	}
	str, err := ctyconvert.Convert(val, cty.String)
	if err != nil {
		return "", encodeError(p.typ, v, err)
	}
	return str.AsString(), nil
}

// Compare orders numbers numerically, strings lexically and false before true.
func (p *Primitive) Compare(a, b any) int {
	va, errA := p.toCty(a)
	vb, errB := p.toCty(b)
	if errA != nil || errB != nil {
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	switch {
	case p.ctyType.Equals(cty.Number):
		return va.AsBigFloat().Cmp(vb.AsBigFloat())
	case p.ctyType.Equals(cty.Bool):
		x, y := va.True(), vb.True()
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(va.AsString(), vb.AsString())
	}
}

func (p *Primitive) toCty(v any) (cty.Value, error) {
	rv, ok := Coerce(v, p.goType)
	if !ok {
		return cty.NilVal, fmt.Errorf("expected %s", p.goType)
	}
	if _, ok := floatBits(p.goType); ok {
		if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return cty.NilVal, fmt.Errorf("%v is not a finite number", f)
		}
	}
	return gocty.ToCtyValue(rv.Interface(), p.ctyType)
}

func floatBits(t reflect.Type) (int, bool) {
	switch t.Kind() {
	case reflect.Float32:
		return 32, true
	case reflect.Float64:
		return 64, true
	default:
		return 0, false
	}
}
