package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/ctxlog"
)

// Source is everything Build needs: the converter registry, converters
// registered under explicit keys, the view types by id and the flat list of
// declarations.
type Source struct {
	Registry    *convert.Registry
	Converters  map[string]convert.Converter
	Views       map[string]reflect.Type
	Definitions []Definition
}

// Build resolves every definition in src. On any configuration problem it
// returns all of them joined and no catalog.
func Build(ctx context.Context, src Source) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx).With("component", "catalog")
	logger.Debug("Building parameter catalog.", "definitions", len(src.Definitions), "views", len(src.Views))

	if src.Registry == nil {
		src.Registry = convert.NewRegistry()
	}

	cat := &Catalog{views: make(map[string]*viewParams, len(src.Views))}
	for id, typ := range src.Views {
		cat.views[id] = &viewParams{typ: typ, byName: make(map[string]*Parameter)}
	}

	var errs []error
	for _, def := range src.Definitions {
		vp, ok := cat.views[def.View]
		if !ok {
			logger.Warn("Parameter declared for an unknown view, ignoring it.", "view", def.View, "param", def.Name, "source", def.Source)
			continue
		}
		if _, dup := vp.byName[def.Name]; dup {
			errs = append(errs, configError(def, ErrDuplicateParameter, "at %s", sourceOf(def)))
			continue
		}
		p, err := resolve(src, vp.typ, def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vp.byName[def.Name] = p
		logger.Debug("Parameter resolved.", "view", p.View, "param", p.Name, "type", p.Type.String(), "converter", fmt.Sprint(p.Converter), "property", p.Property != nil)
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		logger.Error("Parameter catalog is invalid.", "problems", len(errs))
		return nil, fmt.Errorf("parameter catalog validation failed:\n%w", err)
	}

	for _, vp := range cat.views {
		vp.sorted = make([]*Parameter, 0, len(vp.byName))
		for _, p := range vp.byName {
			vp.sorted = append(vp.sorted, p)
		}
		sort.Slice(vp.sorted, func(i, j int) bool { return vp.sorted[i].Name < vp.sorted[j].Name })
	}

	logger.Info("Parameter catalog built.", "views", len(cat.Views()), "parameters", cat.Len())
	return cat, nil
}

func resolve(src Source, viewType reflect.Type, def Definition) (*Parameter, error) {
	prop, err := lookupProperty(viewType, def.Name)
	if err != nil {
		return nil, configError(def, ErrTypeMismatch, "%v", err)
	}

	typ, err := resolveType(def, prop)
	if err != nil {
		return nil, err
	}

	conv, err := resolveConverter(src, def, typ, prop)
	if err != nil {
		return nil, err
	}

	if def.Default != "" {
		if _, err := conv.Decode(def.Default); err != nil {
			return nil, configError(def, ErrNonConvertibleDefault, "%q: %v", def.Default, err)
		}
	}

	return &Parameter{
		View:      def.View,
		Name:      def.Name,
		Type:      typ,
		Default:   def.Default,
		Converter: conv,
		Property:  prop,
	}, nil
}

// resolveType prefers the property type; a declared type must then agree
// with it, either by name or by collection shape.
func resolveType(def Definition, prop *Property) (convert.Type, error) {
	if prop == nil {
		if def.Type.IsZero() {
			return convert.Type{}, configError(def, ErrAmbiguousType, "no property %q on the view and no declared type", def.Name)
		}
		return def.Type, nil
	}

	inferred := convert.TypeOf(prop.Type)
	if def.Type.IsZero() || def.Type.Equals(inferred) {
		return inferred, nil
	}
	if shape, ok := convert.ShapeOf(prop.Type); ok && def.Type.Equals(shape) {
		return shape, nil
	}
	return convert.Type{}, configError(def, ErrTypeMismatch, "declared %s, property is %s", def.Type, prop.Type)
}

func resolveConverter(src Source, def Definition, typ convert.Type, prop *Property) (convert.Converter, error) {
	conv := def.Converter
	if conv == nil && def.ConverterKey != "" {
		c, ok := src.Converters[def.ConverterKey]
		if !ok {
			return nil, configError(def, ErrConverterMissing, "no converter registered under key %q", def.ConverterKey)
		}
		conv = c
	}

	if conv == nil {
		if c, ok := src.Registry.Lookup(typ); ok {
			conv = c
		} else if prop != nil {
			if shape, ok := convert.ShapeOf(prop.Type); ok {
				conv, _ = src.Registry.Lookup(shape)
			}
		}
	}
	if conv == nil {
		return nil, configError(def, ErrConverterMissing, "type %s", typ)
	}

	if prop != nil {
		if !convert.Compatible(conv.GoType(), prop.Type) {
			return nil, configError(def, ErrTypeMismatch, "converter %v produces %s, property is %s", conv, conv.GoType(), prop.Type)
		}
	} else if def.Converter != nil || def.ConverterKey != "" {
		if !convert.Handles(conv, typ) {
			return nil, configError(def, ErrTypeMismatch, "converter %v does not handle %s", conv, typ)
		}
	}
	return conv, nil
}

func sourceOf(def Definition) string {
	if def.Source == "" {
		return "<unknown>"
	}
	return def.Source
}
