// Package builtin registers converters for Go's primitive types, each with
// its collection form.
package builtin

import (
	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Converters returns a fresh converter for every built-in primitive type.
func Converters() []convert.Converter {
	return []convert.Converter{
		convert.PrimitiveFor[string](),
		convert.PrimitiveFor[int](),
		convert.PrimitiveFor[int64](),
		convert.PrimitiveFor[int32](),
		convert.PrimitiveFor[float64](),
		convert.PrimitiveFor[bool](),
	}
}

// Register registers every primitive converter and list(T) over it.
func (m *Module) Register(r *registry.Registry) {
	for _, c := range Converters() {
		r.RegisterValueConverter(c)
	}
}
