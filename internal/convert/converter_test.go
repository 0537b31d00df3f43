package convert

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

func TestPrimitive_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		conv  *Primitive
		value any
		token string
	}{
		{"string", PrimitiveFor[string](), "hello", "hello"},
		{"int", PrimitiveFor[int](), 42, "42"},
		{"int64", PrimitiveFor[int64](), int64(1640), "1640"},
		{"negative int32", PrimitiveFor[int32](), int32(-7), "-7"},
		{"float64", PrimitiveFor[float64](), 1.5, "1.5"},
		{"bool", PrimitiveFor[bool](), true, "true"},
		{"named float", PrimitiveFor[celsius](), celsius(21.5), "21.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			token, err := tc.conv.Encode(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.token, token)

			back, err := tc.conv.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tc.value, back)
		})
	}
}

func TestPrimitive_DecodeFailures(t *testing.T) {
	t.Parallel()

	_, err := PrimitiveFor[int64]().Decode("Not numeric")
	require.ErrorIs(t, err, ErrDecode)

	_, err = PrimitiveFor[int]().Decode("1.5")
	require.ErrorIs(t, err, ErrDecode, "whole-number targets reject fractions")

	_, err = PrimitiveFor[bool]().Decode("maybe")
	require.ErrorIs(t, err, ErrDecode)
}

func TestPrimitive_EmptyIsAbsent(t *testing.T) {
	t.Parallel()

	v, err := PrimitiveFor[int64]().Decode("")
	require.NoError(t, err)
	assert.Nil(t, v)

	s, err := PrimitiveFor[int64]().Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestPrimitive_EncodeRejectsForeignValues(t *testing.T) {
	t.Parallel()

	_, err := PrimitiveFor[int64]().Encode("12")
	require.ErrorIs(t, err, ErrEncode)
}

func TestPrimitive_NonFiniteFloatsAreEncodeErrors(t *testing.T) {
	t.Parallel()

	floats := PrimitiveFor[float64]()
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := floats.Encode(f)
		require.ErrorIs(t, err, ErrEncode, "%v", f)
	}

	_, err := NewCollection(floats).Encode([]float64{math.NaN(), 1})
	require.ErrorIs(t, err, ErrEncode)

	assert.NotPanics(t, func() { floats.Compare(math.NaN(), 1.0) })
}

func TestPrimitive_FloatsEncodeCompactly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		conv  *Primitive
		value any
		token string
	}{
		{PrimitiveFor[float64](), 1e300, "1e+300"},
		{PrimitiveFor[float64](), 0.1, "0.1"},
		{PrimitiveFor[float64](), float64(1640), "1640"},
		{PrimitiveFor[float32](), float32(1.1), "1.1"},
	}

	for _, tc := range cases {
		token, err := tc.conv.Encode(tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.token, token)

		back, err := tc.conv.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, tc.value, back)
	}
}

func TestPrimitive_Compare(t *testing.T) {
	t.Parallel()

	ints := PrimitiveFor[int]()
	assert.Negative(t, ints.Compare(2, 10), "numeric, not lexical")
	assert.Zero(t, ints.Compare(3, 3))

	strs := PrimitiveFor[string]()
	assert.Positive(t, strs.Compare("b", "a"))

	bools := PrimitiveFor[bool]()
	assert.Negative(t, bools.Compare(false, true))
}

func TestNewPrimitive_RejectsNonPrimitive(t *testing.T) {
	t.Parallel()

	_, err := NewPrimitive(reflect.TypeFor[[]string]())
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestEnum_RoundTripAndOrder(t *testing.T) {
	t.Parallel()

	e := NewEnum(one, two, three)
	assert.Equal(t, Simple("testEnum"), e.Type())

	for _, v := range []testEnum{one, two, three} {
		token, err := e.Encode(v)
		require.NoError(t, err)
		back, err := e.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, v, back)
	}

	assert.Negative(t, e.Compare(one, three))
	assert.Equal(t, []string{"ONE", "TWO", "THREE"}, e.Names())

	_, err := e.Decode("FOUR")
	require.ErrorIs(t, err, ErrDecode)

	v, err := e.Decode("")
	require.NoError(t, err)
	assert.Nil(t, v)
}

type tab string

func TestStringEnum_AcceptsUnderlyingStrings(t *testing.T) {
	t.Parallel()

	e := NewStringEnum[tab]("TAB_ONE", "TAB_TWO")

	token, err := e.Encode(tab("TAB_TWO"))
	require.NoError(t, err)
	assert.Equal(t, "TAB_TWO", token)

	token, err = e.Encode("TAB_ONE")
	require.NoError(t, err, "plain strings convert to the enum's string type")
	assert.Equal(t, "TAB_ONE", token)
}

func TestSymbolEnum_UsesDeclaredName(t *testing.T) {
	t.Parallel()

	e := NewSymbolEnum("Colour", "RED", "GREEN")
	assert.Equal(t, Simple("Colour"), e.Type())
	assert.Equal(t, reflect.TypeFor[string](), e.GoType())
}

func TestTypeOf(t *testing.T) {
	t.Parallel()

	type tabs []tab

	cases := []struct {
		name string
		in   reflect.Type
		want Type
	}{
		{"builtin", reflect.TypeFor[int64](), Simple("int64")},
		{"named", reflect.TypeFor[tab](), Simple("tab")},
		{"pointer", reflect.TypeFor[*time.Duration](), Simple("Duration")},
		{"slice", reflect.TypeFor[[]tab](), Collection(Simple("tab"))},
		{"named slice", reflect.TypeFor[tabs](), Simple("tabs")},
	}
	for _, tc := range cases {
		assert.True(t, tc.want.Equals(TypeOf(tc.in)), "%s: got %s want %s", tc.name, TypeOf(tc.in), tc.want)
	}

	shape, ok := ShapeOf(reflect.TypeFor[tabs]())
	require.True(t, ok)
	assert.True(t, shape.Equals(Collection(Simple("tab"))))

	_, ok = ShapeOf(reflect.TypeFor[[]tab]())
	assert.False(t, ok, "unnamed slices already are their shape")
}

func TestTypeOfValue(t *testing.T) {
	t.Parallel()

	got, err := TypeOfValue([]any{two, one})
	require.NoError(t, err)
	assert.True(t, got.Equals(Collection(Simple("testEnum"))))

	got, err = TypeOfValue([]testEnum{})
	require.NoError(t, err)
	assert.True(t, got.Equals(Collection(Simple("testEnum"))))

	_, err = TypeOfValue([]any{})
	require.ErrorIs(t, err, ErrUntypedValue)

	_, err = TypeOfValue(nil)
	require.ErrorIs(t, err, ErrUntypedValue)
}

func TestType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "list(Tab)", Collection(Simple("Tab")).String())
	assert.Equal(t, "<undeclared>", Type{}.String())
	assert.True(t, Type{}.IsZero())
}

func TestRegistry_DuplicateTypeIsConfigurationError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry()
	require.NoError(t, r.Register(ctx, PrimitiveFor[int64]()))

	err := r.Register(ctx, PrimitiveFor[int64]())
	require.ErrorIs(t, err, ErrDuplicateConverter)
	require.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_LookupExactThenStructural(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry()
	inner := NewEnum(one, two, three)
	list := NewCollection(inner)
	require.NoError(t, r.Register(ctx, inner))
	require.NoError(t, r.Register(ctx, list))

	got, ok := r.Lookup(Simple("testEnum"))
	require.True(t, ok)
	assert.Same(t, inner, got)

	// A list type built elsewhere still resolves to the registered collection.
	got, ok = r.Lookup(Collection(TypeOf(reflect.TypeFor[testEnum]())))
	require.True(t, ok)
	assert.Same(t, list, got)

	_, ok = r.Lookup(Simple("missing"))
	assert.False(t, ok)
}

func TestRegistry_StructuralMatchFollowsRegistrationOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewRegistry()
	first := matchAll{PrimitiveFor[string]()}
	second := matchAll{PrimitiveFor[int]()}
	require.NoError(t, r.Register(ctx, first))
	require.NoError(t, r.Register(ctx, second))

	got, ok := r.Lookup(Simple("anything"))
	require.True(t, ok)
	assert.Equal(t, first, got)
}

type matchAll struct{ Converter }

func (matchAll) Handles(Type) bool { return true }

func TestMultiValueGrammar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", JoinValues(nil))
	assert.Equal(t, "A", JoinValues([]string{"A"}))
	assert.Equal(t, "(A,B)", JoinValues([]string{"A", "B"}))

	assert.Nil(t, SplitValues(""))
	assert.Equal(t, []string{"A"}, SplitValues("A"))
	assert.Equal(t, []string{"A", "B"}, SplitValues("(A,B)"))
	assert.Equal(t, []string{"A", "B"}, SplitValues("(A,B)trailing"))
	assert.Nil(t, SplitValues("()"))
	assert.Nil(t, SplitValues("(A"))
}
