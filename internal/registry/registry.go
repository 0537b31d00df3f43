package registry

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/manifest"
)

// Module is the interface that all compiled-in modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// View is a registered view instance.
type View struct {
	ID       string
	Instance any
}

// embedded is a manifest shipped inside a module binary.
type embedded struct {
	name string
	src  []byte
}

// Registry holds everything modules registered for a single application
// instance.
type Registry struct {
	converters  []convert.Converter
	keyed       map[string]convert.Converter
	views       []View
	viewIndex   map[string]int
	definitions []catalog.Definition
	embedded    []embedded
	model       manifest.Model
	defaultView string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		keyed:     make(map[string]convert.Converter),
		viewIndex: make(map[string]int),
	}
}

// RegisterModules calls Register on every module, in order.
func (r *Registry) RegisterModules(modules ...Module) *Registry {
	for _, m := range modules {
		slog.Debug("Registering module.", "module", fmt.Sprintf("%T", m))
		m.Register(r)
	}
	return r
}

// RegisterConverter adds c to the type registry. Two converters for the same
// type are reported by Build.
func (r *Registry) RegisterConverter(c convert.Converter) *Registry {
	if c == nil {
		panic("registry: nil converter")
	}
	r.converters = append(r.converters, c)
	return r
}

// RegisterValueConverter registers c together with a collection converter
// over it, so both T and list(T) resolve.
func (r *Registry) RegisterValueConverter(c convert.Converter) *Registry {
	return r.RegisterConverter(c).RegisterConverter(convert.NewCollection(c))
}

// RegisterKeyedConverter makes c available to definitions that name it
// explicitly through key.
func (r *Registry) RegisterKeyedConverter(key string, c convert.Converter) *Registry {
	if key == "" || c == nil {
		panic("registry: converter key and converter must not be empty")
	}
	if _, exists := r.keyed[key]; exists {
		panic(fmt.Sprintf("converter with key '%s' already registered", key))
	}
	slog.Debug("Registering keyed converter.", "key", key, "converter", fmt.Sprint(c))
	r.keyed[key] = c
	return r
}

// RegisterView registers a view instance under id.
func (r *Registry) RegisterView(id string, view any) *Registry {
	if id == "" || view == nil {
		panic("registry: view id and view must not be empty")
	}
	if _, exists := r.viewIndex[id]; exists {
		panic(fmt.Sprintf("view with id '%s' already registered", id))
	}
	slog.Debug("Registering view.", "view", id, "type", reflect.TypeOf(view).String())
	r.viewIndex[id] = len(r.views)
	r.views = append(r.views, View{ID: id, Instance: view})
	return r
}

// SetDefaultView names the view shown for an empty location. The last call
// wins.
func (r *Registry) SetDefaultView(id string) *Registry {
	r.defaultView = id
	return r
}

// Declare adds parameter definitions written in Go.
func (r *Registry) Declare(defs ...catalog.Definition) *Registry {
	r.definitions = append(r.definitions, defs...)
	return r
}

// RegisterManifest adds an HCL manifest held in memory. It is parsed by
// Build.
func (r *Registry) RegisterManifest(name string, src []byte) *Registry {
	r.embedded = append(r.embedded, embedded{name: name, src: src})
	return r
}

// AddManifest merges an already loaded manifest model.
func (r *Registry) AddManifest(m *manifest.Model) *Registry {
	r.model.Merge(m)
	return r
}

// Views returns the registered views in registration order.
func (r *Registry) Views() []View {
	return append([]View(nil), r.views...)
}

// DefaultView returns the view id set by SetDefaultView.
func (r *Registry) DefaultView() string { return r.defaultView }

// KeyedConverter returns the converter registered under key.
func (r *Registry) KeyedConverter(key string) (convert.Converter, bool) {
	c, ok := r.keyed[key]
	return c, ok
}
