package convert

import (
	"fmt"
	"reflect"
	"sort"
)

// CollectionConverter encodes slices of values produced by an inner
// converter using the multi-value grammar. Two or more elements are sorted
// before rendering so that the same set always yields the same string.
type CollectionConverter struct {
	inner  Converter
	typ    Type
	goType reflect.Type
}

// NewCollection wraps inner. Decoded values are slices of inner.GoType().
func NewCollection(inner Converter) *CollectionConverter {
	return &CollectionConverter{
		inner:  inner,
		typ:    Collection(inner.Type()),
		goType: reflect.SliceOf(inner.GoType()),
	}
}

func (c *CollectionConverter) Type() Type           { return c.typ }
func (c *CollectionConverter) GoType() reflect.Type { return c.goType }

// Inner returns the per-element converter.
func (c *CollectionConverter) Inner() Converter { return c.inner }

func (c *CollectionConverter) String() string {
	return fmt.Sprintf("collection(%v)", c.inner)
}

// Handles matches any collection whose element the inner converter handles,
// so independently built list(Tab) types resolve to the same converter.
func (c *CollectionConverter) Handles(t Type) bool {
	elem, ok := t.Elem()
	if !ok {
		return false
	}
	return Handles(c.inner, elem)
}

// Decode parses s into a slice. The empty string is an empty, non-nil slice.
func (c *CollectionConverter) Decode(s string) (any, error) {
	tokens := SplitValues(s)
	out := reflect.MakeSlice(c.goType, 0, len(tokens))
	for _, tok := range tokens {
		v, err := c.inner.Decode(tok)
		if err != nil {
			return nil, decodeError(c.typ, s, err)
		}
		if v == nil {
			return nil, decodeError(c.typ, s, fmt.Errorf("empty element"))
		}
		ev, ok := Coerce(v, c.inner.GoType())
		if !ok {
			return nil, decodeError(c.typ, s, fmt.Errorf("element %v is not a %s", v, c.inner.GoType()))
		}
		out = reflect.Append(out, ev)
	}
	return out.Interface(), nil
}

// Encode renders a slice or array; nil and empty collections render as "".
func (c *CollectionConverter) Encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", encodeError(c.typ, v, fmt.Errorf("not a collection"))
	}
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	if len(elems) > 1 {
		if err := c.sortElements(elems); err != nil {
			return "", encodeError(c.typ, v, err)
		}
	}
	tokens := make([]string, len(elems))
	for i, e := range elems {
		tok, err := c.inner.Encode(e)
		if err != nil {
			return "", encodeError(c.typ, v, err)
		}
		tokens[i] = tok
	}
	return JoinValues(tokens), nil
}

// EncodeElement renders a single bare element as a one-element collection.
func (c *CollectionConverter) EncodeElement(v any) (string, error) {
	return c.inner.Encode(v)
}

// Wrap returns a one-element slice holding v.
func (c *CollectionConverter) Wrap(v any) (any, error) {
	ev, ok := Coerce(v, c.inner.GoType())
	if !ok {
		return nil, fmt.Errorf("%v (%T) is not a %s", v, v, c.inner.GoType())
	}
	out := reflect.MakeSlice(c.goType, 0, 1)
	return reflect.Append(out, ev).Interface(), nil
}

// Normalize copies any slice or array into a slice of GoType, converting
// each element. nil stays nil.
func (c *CollectionConverter) Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == c.goType {
		return v, nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%v (%T) is not a collection", v, v)
	}
	out := reflect.MakeSlice(c.goType, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		e := rv.Index(i).Interface()
		ev, ok := Coerce(e, c.inner.GoType())
		if !ok {
			return nil, fmt.Errorf("element %v (%T) is not a %s", e, e, c.inner.GoType())
		}
		out = reflect.Append(out, ev)
	}
	return out.Interface(), nil
}

// sortElements orders by the inner converter's natural order when it has
// one, else by encoded token.
func (c *CollectionConverter) sortElements(elems []any) error {
	if o, ok := c.inner.(Orderer); ok {
		sort.SliceStable(elems, func(i, j int) bool { return o.Compare(elems[i], elems[j]) < 0 })
		return nil
	}
	keys := make(map[int]string, len(elems))
	idx := make([]int, len(elems))
	for i, e := range elems {
		tok, err := c.inner.Encode(e)
		if err != nil {
			return err
		}
		keys[i] = tok
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })
	sorted := make([]any, len(elems))
	for i, k := range idx {
		sorted[i] = elems[k]
	}
	copy(elems, sorted)
	return nil
}
