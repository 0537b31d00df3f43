package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// typeAliases maps manifest type keywords onto Go type names.
var typeAliases = map[string]string{
	"number": "float64",
}

func translateParam(ctx context.Context, filename, view string, p *paramBlock) (catalog.Definition, error) {
	def := catalog.Definition{
		View:   view,
		Name:   p.Name,
		Source: fmt.Sprintf("%s (view %q)", filename, view),
	}
	if p.Type != nil {
		r := p.Type.Range()
		def.Source = fmt.Sprintf("%s:%d", filename, r.Start.Line)
	}

	typ, err := typeExprToType(ctx, p.Type)
	if err != nil {
		return def, fmt.Errorf("%s: view %q, param %q: %w", def.Source, view, p.Name, err)
	}
	def.Type = typ
	if p.Default != nil {
		def.Default = *p.Default
	}
	if p.Converter != nil {
		def.ConverterKey = *p.Converter
	}
	return def, nil
}

func translateEnum(filename string, e *enumBlock) (Enum, error) {
	if len(e.Values) == 0 {
		return Enum{}, fmt.Errorf("%s: enum %q declares no values", filename, e.Name)
	}
	seen := make(map[string]struct{}, len(e.Values))
	for _, v := range e.Values {
		if v == "" {
			return Enum{}, fmt.Errorf("%s: enum %q declares an empty value", filename, e.Name)
		}
		if _, dup := seen[v]; dup {
			return Enum{}, fmt.Errorf("%s: enum %q declares %q twice", filename, e.Name, v)
		}
		seen[v] = struct{}{}
	}
	return Enum{Name: e.Name, Values: e.Values, Source: filename}, nil
}

// typeExprToType converts a manifest type expression into a convert.Type.
// Accepted forms are a bare keyword (`Tab`, `int64`), a quoted name
// (`"Tab"`) and `list(X)` or `set(X)` of a simple type. A missing
// attribute yields the zero Type.
func typeExprToType(ctx context.Context, expr hcl.Expression) (convert.Type, error) {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return convert.Type{}, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a function call.", "call", v.Name)
		if v.Name != "list" && v.Name != "set" {
			return convert.Type{}, fmt.Errorf("unknown type constructor %q, expected list or set", v.Name)
		}
		if len(v.Args) != 1 {
			return convert.Type{}, fmt.Errorf("type constructor %s requires exactly one argument, got %d", v.Name, len(v.Args))
		}
		elem, err := typeExprToType(ctx, v.Args[0])
		if err != nil {
			return convert.Type{}, err
		}
		if elem.Kind() != convert.KindSimple {
			return convert.Type{}, fmt.Errorf("%s(...) needs a simple element type, got %s", v.Name, elem)
		}
		return convert.Collection(elem), nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return convert.Type{}, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		return simple(v.Traversal.RootName()), nil

	default:
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return convert.Type{}, fmt.Errorf("unsupported expression for type definition: %w", diags)
		}
		if val.IsNull() {
			return convert.Type{}, nil
		}
		if !val.Type().Equals(cty.String) || val.AsString() == "" {
			return convert.Type{}, fmt.Errorf("unsupported expression for type definition: %T", expr)
		}
		return simple(val.AsString()), nil
	}
}

func simple(name string) convert.Type {
	if alias, ok := typeAliases[name]; ok {
		return convert.Simple(alias)
	}
	return convert.Simple(name)
}
