package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shade string

type shades []shade

type paletteView struct {
	size     int64
	shade    shade
	selected []shade
	pinned   shades
	failSet  error
}

func (v *paletteView) Size() int64       { return v.size }
func (v *paletteView) SetSize(n int64)   { v.size = n }
func (v *paletteView) Shade() shade      { return v.shade }
func (v *paletteView) SetShade(s shade)  { v.shade = s }
func (v *paletteView) Selected() []shade { return v.selected }
func (v *paletteView) SetSelected(s []shade) error {
	if v.failSet != nil {
		return v.failSet
	}
	v.selected = s
	return nil
}
func (v *paletteView) Pinned() shades     { return v.pinned }
func (v *paletteView) SetPinned(s shades) { v.pinned = s }

// Broken disagrees with its own setter.
func (v *paletteView) Broken() string { return "" }
func (v *paletteView) SetBroken(int)  {}

var paletteType = reflect.TypeFor[*paletteView]()

func testRegistry(t *testing.T) *convert.Registry {
	t.Helper()
	ctx := context.Background()
	r := convert.NewRegistry()
	shadeEnum := convert.NewStringEnum[shade]("RED", "GREEN", "BLUE")
	require.NoError(t, r.Register(ctx, convert.PrimitiveFor[int64]()))
	require.NoError(t, r.Register(ctx, convert.PrimitiveFor[string]()))
	require.NoError(t, r.Register(ctx, shadeEnum))
	require.NoError(t, r.Register(ctx, convert.NewCollection(shadeEnum)))
	return r
}

func build(t *testing.T, defs ...Definition) (*Catalog, error) {
	t.Helper()
	return Build(context.Background(), Source{
		Registry:    testRegistry(t),
		Views:       map[string]reflect.Type{"palette": paletteType},
		Definitions: defs,
	})
}

func TestBuild_InfersTypeFromProperty(t *testing.T) {
	t.Parallel()

	cat, err := build(t, Definition{View: "palette", Name: "size"})
	require.NoError(t, err)

	p, ok := cat.Parameter("palette", "size")
	require.True(t, ok)
	assert.True(t, p.Type.Equals(convert.Simple("int64")))
	assert.Equal(t, reflect.TypeFor[int64](), p.Converter.GoType())
	require.NotNil(t, p.Property)
	assert.True(t, p.Property.HasGetter())
	assert.True(t, p.Property.HasSetter())
}

func TestBuild_DeclaredTypeWithoutProperty(t *testing.T) {
	t.Parallel()

	cat, err := build(t, Definition{View: "palette", Name: "filter", Type: convert.Simple("string"), Default: "all"})
	require.NoError(t, err)

	p, ok := cat.Parameter("palette", "filter")
	require.True(t, ok)
	assert.Nil(t, p.Property)

	def, err := p.DefaultValue()
	require.NoError(t, err)
	assert.Equal(t, "all", def)
}

func TestBuild_CollectionProperties(t *testing.T) {
	t.Parallel()

	cat, err := build(t,
		Definition{View: "palette", Name: "selected"},
		Definition{View: "palette", Name: "pinned", Type: convert.Collection(convert.Simple("shade"))},
	)
	require.NoError(t, err)

	selected, _ := cat.Parameter("palette", "selected")
	_, ok := selected.Collection()
	assert.True(t, ok)

	// A named slice resolves through its collection shape.
	pinned, _ := cat.Parameter("palette", "pinned")
	assert.True(t, pinned.Type.Equals(convert.Collection(convert.Simple("shade"))))
	_, ok = pinned.Collection()
	assert.True(t, ok)
}

func TestBuild_NamedSliceFallsBackToShapeWithoutDeclaredType(t *testing.T) {
	t.Parallel()

	cat, err := build(t, Definition{View: "palette", Name: "pinned"})
	require.NoError(t, err)

	p, _ := cat.Parameter("palette", "pinned")
	assert.True(t, p.Type.Equals(convert.Simple("shades")))
	_, ok := p.Collection()
	assert.True(t, ok)
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		def  Definition
		kind error
	}{
		{
			name: "no property and no type",
			def:  Definition{View: "palette", Name: "mystery"},
			kind: ErrAmbiguousType,
		},
		{
			name: "declared type conflicts with property",
			def:  Definition{View: "palette", Name: "size", Type: convert.Simple("string")},
			kind: ErrTypeMismatch,
		},
		{
			name: "getter and setter disagree",
			def:  Definition{View: "palette", Name: "broken"},
			kind: ErrTypeMismatch,
		},
		{
			name: "no converter for the type",
			def:  Definition{View: "palette", Name: "when", Type: convert.Simple("Time")},
			kind: ErrConverterMissing,
		},
		{
			name: "unknown converter key",
			def:  Definition{View: "palette", Name: "size", ConverterKey: "nope"},
			kind: ErrConverterMissing,
		},
		{
			name: "override of the wrong Go type",
			def:  Definition{View: "palette", Name: "size", Converter: convert.PrimitiveFor[bool]()},
			kind: ErrTypeMismatch,
		},
		{
			name: "default does not decode",
			def:  Definition{View: "palette", Name: "size", Default: "large"},
			kind: ErrNonConvertibleDefault,
		},
		{
			name: "enum default does not decode",
			def:  Definition{View: "palette", Name: "shade", Default: "PURPLE"},
			kind: ErrNonConvertibleDefault,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cat, err := build(t, tc.def)
			require.Error(t, err)
			assert.Nil(t, cat)
			require.ErrorIs(t, err, tc.kind)
			require.ErrorIs(t, err, convert.ErrConfiguration)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "palette", cfgErr.View)
			assert.Equal(t, tc.def.Name, cfgErr.Param)
		})
	}
}

func TestBuild_AggregatesAllProblems(t *testing.T) {
	t.Parallel()

	_, err := build(t,
		Definition{View: "palette", Name: "mystery"},
		Definition{View: "palette", Name: "size", Default: "large"},
		Definition{View: "palette", Name: "shade"},
		Definition{View: "palette", Name: "shade", Source: "second.hcl:3"},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguousType)
	assert.ErrorIs(t, err, ErrNonConvertibleDefault)
	assert.ErrorIs(t, err, ErrDuplicateParameter)
	assert.Contains(t, err.Error(), "second.hcl:3")
}

func TestBuild_KeyedOverride(t *testing.T) {
	t.Parallel()

	upper := convert.NewStringEnum[shade]("LIGHT", "DARK")
	cat, err := Build(context.Background(), Source{
		Registry:    testRegistry(t),
		Converters:  map[string]convert.Converter{"tone": upper},
		Views:       map[string]reflect.Type{"palette": paletteType},
		Definitions: []Definition{{View: "palette", Name: "shade", ConverterKey: "tone", Default: "DARK"}},
	})
	require.NoError(t, err)

	p, _ := cat.Parameter("palette", "shade")
	assert.Same(t, upper, p.Converter)
}

func TestBuild_UnknownViewIsSkipped(t *testing.T) {
	t.Parallel()

	cat, err := build(t, Definition{View: "ghost", Name: "anything"})
	require.NoError(t, err)
	assert.Empty(t, cat.Parameters("ghost"))
	assert.Empty(t, cat.Views())
}

func TestCatalog_ParametersAreSortedByName(t *testing.T) {
	t.Parallel()

	cat, err := build(t,
		Definition{View: "palette", Name: "size"},
		Definition{View: "palette", Name: "selected"},
		Definition{View: "palette", Name: "shade"},
	)
	require.NoError(t, err)

	var names []string
	for _, p := range cat.Parameters("palette") {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"selected", "shade", "size"}, names)
	assert.Equal(t, []string{"palette"}, cat.Views())
	assert.Equal(t, 3, cat.Len())

	typ, ok := cat.ViewType("palette")
	require.True(t, ok)
	assert.Equal(t, paletteType, typ)
}
