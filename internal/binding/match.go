package binding

import (
	"reflect"

	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/convert"
)

// match is a parameter selected for a value type.
type match struct {
	param *catalog.Parameter
	// coll is the parameter's converter when the parameter is multi-valued.
	coll *convert.CollectionConverter
	// wrap is set when a single element was supplied for a collection.
	wrap bool
}

// match finds the parameter of viewID that takes values of type t. goType,
// when known, lets a named slice type match through its collection shape.
// Candidates are tried in parameter name order:
//
//  1. the declared type or the converter accepts t
//  2. the converter accepts the collection shape of goType
//  3. t is the element type of a collection parameter
func (b *Binder) match(viewID string, t convert.Type, goType reflect.Type) (match, bool) {
	params := b.catalog.Parameters(viewID)
	for _, p := range params {
		if p.Type.Equals(t) || convert.Handles(p.Converter, t) {
			return newMatch(p), true
		}
	}
	if goType != nil {
		if shape, ok := convert.ShapeOf(goType); ok {
			for _, p := range params {
				if convert.Handles(p.Converter, shape) {
					return newMatch(p), true
				}
			}
		}
	}
	for _, p := range params {
		if coll, ok := p.Collection(); ok && convert.Handles(coll.Inner(), t) {
			return match{param: p, coll: coll, wrap: true}, true
		}
	}
	return match{}, false
}

func newMatch(p *catalog.Parameter) match {
	coll, _ := p.Collection()
	return match{param: p, coll: coll}
}
