package manifest

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := testutil.WriteFiles(t, map[string]string{
		"enums.hcl": `
			enum "Colour" {
				values = ["RED", "GREEN", "BLUE"]
			}
		`,
		"views/palette.hcl": `
			view "palette" {
				param "colour" {
					default = "RED"
				}
				param "picked" {
					type      = list(Colour)
					converter = "colours"
				}
				param "ratio" {
					type    = number
					default = 0.5
				}
				param "label" {
					type = "string"
				}
				param "tags" {
					type = set(string)
				}
			}
		`,
		"views/README.md": "not a manifest",
	})
	ctx, _ := testutil.Context(t)

	// --- Act ---
	model, err := NewLoader().Load(ctx, root, filepath.Join(root, "missing"))

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Enums, 1)
	assert.Equal(t, "Colour", model.Enums[0].Name)
	assert.Equal(t, []string{"RED", "GREEN", "BLUE"}, model.Enums[0].Values)

	byName := make(map[string]catalog.Definition)
	for _, d := range model.Definitions {
		assert.Equal(t, "palette", d.View)
		assert.NotEmpty(t, d.Source)
		byName[d.Name] = d
	}
	require.Len(t, byName, 5)

	assert.True(t, byName["colour"].Type.IsZero(), "no type means infer from the property")
	assert.Equal(t, "RED", byName["colour"].Default)

	assert.True(t, byName["picked"].Type.Equals(convert.Collection(convert.Simple("Colour"))))
	assert.Equal(t, "colours", byName["picked"].ConverterKey)

	assert.True(t, byName["ratio"].Type.Equals(convert.Simple("float64")))
	assert.Equal(t, "0.5", byName["ratio"].Default)

	assert.True(t, byName["label"].Type.Equals(convert.Simple("string")))
	assert.True(t, byName["tags"].Type.Equals(convert.Collection(convert.Simple("string"))))
}

func TestLoader_Parse(t *testing.T) {
	t.Parallel()

	ctx, _ := testutil.Context(t)
	model, err := NewLoader().Parse(ctx, "embedded.hcl", []byte(`
		view "one" {
			param "tab" {
				default = "TAB_TWO"
			}
		}
		unrelated "block" {}
	`))
	require.NoError(t, err)
	require.Len(t, model.Definitions, 1)
	assert.Equal(t, "one", model.Definitions[0].View)
	assert.Equal(t, "TAB_TWO", model.Definitions[0].Default)
}

func TestLoader_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `view "one" {`,
			wantErr: "failed to parse",
		},
		{
			name:    "unknown type constructor",
			src:     `view "one" { param "p" { type = map(Tab) } }`,
			wantErr: "unknown type constructor",
		},
		{
			name:    "nested collection",
			src:     `view "one" { param "p" { type = list(list(Tab)) } }`,
			wantErr: "needs a simple element type",
		},
		{
			name:    "dotted keyword",
			src:     `view "one" { param "p" { type = a.b } }`,
			wantErr: "single identifier",
		},
		{
			name:    "numeric type",
			src:     `view "one" { param "p" { type = 5 } }`,
			wantErr: "unsupported expression",
		},
		{
			name:    "empty enum",
			src:     `enum "E" { values = [] }`,
			wantErr: "declares no values",
		},
		{
			name:    "duplicate enum value",
			src:     `enum "E" { values = ["A", "A"] }`,
			wantErr: "declares \"A\" twice",
		},
		{
			name:    "unknown param attribute",
			src:     `view "one" { param "p" { colour = "red" } }`,
			wantErr: "failed to decode",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx, _ := testutil.Context(t)
			_, err := NewLoader().Parse(ctx, tc.name+".hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestModel_Merge(t *testing.T) {
	t.Parallel()

	m := &Model{}
	m.Merge(nil)
	m.Merge(&Model{
		Definitions: []catalog.Definition{{View: "a", Name: "x"}},
		Enums:       []Enum{{Name: "E", Values: []string{"A"}}},
	})
	assert.Len(t, m.Definitions, 1)
	assert.Len(t, m.Enums, 1)
}
