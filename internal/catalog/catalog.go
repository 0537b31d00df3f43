package catalog

import (
	"reflect"
	"sort"

	"github.com/specialistvlad/viewparams/internal/convert"
)

// Definition declares one parameter of one view. Type, Default and the two
// converter overrides are optional; a zero Type means "infer it from the
// view property".
type Definition struct {
	View    string
	Name    string
	Type    convert.Type
	Default string

	// ConverterKey names a converter registered under an explicit key.
	ConverterKey string
	// Converter overrides registry lookup directly. It wins over ConverterKey.
	Converter convert.Converter

	// Source is where the definition came from, e.g. "views.hcl:12". Only
	// used in log and error messages.
	Source string
}

// Parameter is a Definition bound to its converter and, when the view has a
// matching property, to that property.
type Parameter struct {
	View      string
	Name      string
	Type      convert.Type
	Default   string
	Converter convert.Converter
	Property  *Property
}

// DefaultValue decodes the configured default. The result is fresh on every
// call, so callers may keep it without sharing state.
func (p *Parameter) DefaultValue() (any, error) {
	return p.Converter.Decode(p.Default)
}

// Collection returns the collection converter of a multi-valued parameter.
func (p *Parameter) Collection() (*convert.CollectionConverter, bool) {
	c, ok := p.Converter.(*convert.CollectionConverter)
	return c, ok
}

// Catalog holds the resolved parameters of every view.
type Catalog struct {
	views map[string]*viewParams
}

type viewParams struct {
	typ    reflect.Type
	sorted []*Parameter
	byName map[string]*Parameter
}

// Parameters returns the parameters of view ordered by name.
func (c *Catalog) Parameters(view string) []*Parameter {
	vp, ok := c.views[view]
	if !ok {
		return nil
	}
	return append([]*Parameter(nil), vp.sorted...)
}

// Parameter returns the parameter called name on view.
func (c *Catalog) Parameter(view, name string) (*Parameter, bool) {
	vp, ok := c.views[view]
	if !ok {
		return nil, false
	}
	p, ok := vp.byName[name]
	return p, ok
}

// ViewType returns the Go type registered for view, if any.
func (c *Catalog) ViewType(view string) (reflect.Type, bool) {
	vp, ok := c.views[view]
	if !ok || vp.typ == nil {
		return nil, false
	}
	return vp.typ, true
}

// Views lists the view ids that declare at least one parameter, sorted.
func (c *Catalog) Views() []string {
	ids := make([]string, 0, len(c.views))
	for id, vp := range c.views {
		if len(vp.sorted) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len returns the total number of resolved parameters.
func (c *Catalog) Len() int {
	n := 0
	for _, vp := range c.views {
		n += len(vp.sorted)
	}
	return n
}
