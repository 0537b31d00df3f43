package convert

import (
	"context"
	"fmt"

	"github.com/specialistvlad/viewparams/internal/ctxlog"
)

// Registry maps parameter Types to converters. It is filled once at startup
// and read-only afterwards.
type Registry struct {
	byType map[string]Converter
	order  []Converter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]Converter)}
}

// Register adds c under the Type it reports. A second converter for the same
// Type is a configuration error, not a replacement.
func (r *Registry) Register(ctx context.Context, c Converter) error {
	key := c.Type().String()
	if existing, ok := r.byType[key]; ok {
		return fmt.Errorf("%w for type %s: %v and %v", ErrDuplicateConverter, key, existing, c)
	}
	ctxlog.FromContext(ctx).Debug("Registering converter.", "type", key, "converter", fmt.Sprint(c))
	r.byType[key] = c
	r.order = append(r.order, c)
	return nil
}

// Lookup finds the converter for t: the exact Type first, then the first
// registered converter that handles t, in registration order.
func (r *Registry) Lookup(t Type) (Converter, bool) {
	if c, ok := r.byType[t.String()]; ok {
		return c, true
	}
	for _, c := range r.order {
		if Handles(c, t) {
			return c, true
		}
	}
	return nil, false
}

// Len returns the number of registered converters.
func (r *Registry) Len() int { return len(r.order) }
