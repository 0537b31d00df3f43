package registry

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"

	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/specialistvlad/viewparams/internal/manifest"
)

// Build parses embedded manifests, registers manifest enums and resolves
// every definition into a catalog. All problems are returned together.
func (r *Registry) Build(ctx context.Context) (*catalog.Catalog, error) {
	ctx = ctxlog.With(ctx, "component", "registry")
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building registry.", "converters", len(r.converters), "views", len(r.views), "embedded_manifests", len(r.embedded))

	model := &manifest.Model{}
	loader := manifest.NewLoader()
	for _, e := range r.embedded {
		m, err := loader.Parse(ctx, e.name, e.src)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}
	model.Merge(&r.model)

	var errs []error
	types := convert.NewRegistry()
	for _, c := range r.converters {
		if err := types.Register(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}

	keyed := maps.Clone(r.keyed)
	for _, e := range model.Enums {
		enum := convert.NewSymbolEnum(e.Name, e.Values...)
		list := convert.NewCollection(enum)
		for _, c := range []convert.Converter{enum, list} {
			if err := types.Register(ctx, c); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", e.Source, err))
				continue
			}
			if _, taken := keyed[c.Type().String()]; !taken {
				keyed[c.Type().String()] = c
			}
		}
		logger.Debug("Registered manifest enum.", "enum", e.Name, "values", len(e.Values), "source", e.Source)
	}

	views := make(map[string]reflect.Type, len(r.views))
	for _, v := range r.views {
		views[v.ID] = reflect.TypeOf(v.Instance)
	}
	if r.defaultView != "" {
		if _, ok := views[r.defaultView]; !ok {
			errs = append(errs, fmt.Errorf("%w: default view %q is not registered", convert.ErrConfiguration, r.defaultView))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("registry validation failed:\n%w", errors.Join(errs...))
	}

	defs := make([]catalog.Definition, 0, len(r.definitions)+len(model.Definitions))
	defs = append(defs, r.definitions...)
	defs = append(defs, model.Definitions...)

	return catalog.Build(ctx, catalog.Source{
		Registry:    types,
		Converters:  keyed,
		Views:       views,
		Definitions: defs,
	})
}
