package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/specialistvlad/viewparams/internal/binding"
	"github.com/specialistvlad/viewparams/internal/bridge"
	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/specialistvlad/viewparams/internal/location"
	"github.com/specialistvlad/viewparams/internal/manifest"
	"github.com/specialistvlad/viewparams/internal/navigator"
	"github.com/specialistvlad/viewparams/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	ctx      context.Context
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	catalog  *catalog.Catalog
	nav      *navigator.Navigator
	binder   *binding.Binder

	// mu is the UI lock. It serialises every call into nav and binder.
	mu sync.Mutex

	httpServer *http.Server
	bridge     *bridge.Bridge
}

// NewApp is the constructor for the main application. It registers the
// modules (the core modules when none are given), loads the configured
// manifests and builds the parameter catalog. Configuration problems are
// returned; duplicate registrations panic.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules()
	}
	reg.RegisterModules(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	if len(cfg.ManifestPaths) > 0 {
		model, err := manifest.NewLoader().Load(ctx, cfg.ManifestPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifests: %w", err)
		}
		reg.AddManifest(model)
	}
	if cfg.DefaultView != "" {
		reg.SetDefaultView(cfg.DefaultView)
	}

	cat, err := reg.Build(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parameter catalog built.", "views", cat.Views(), "parameters", cat.Len())

	nav := navigator.New(ctx).SetFallback(reg.DefaultView())
	views := reg.Views()
	instances := make([]any, len(views))
	for i, v := range views {
		nav.Register(v.ID, v.Instance)
		instances[i] = v.Instance
	}

	binder := binding.New(ctx, cat, nav)
	nav.AddListener(binder)
	binder.BindViews(instances...)

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		catalog:  cat,
		nav:      nav,
		binder:   binder,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Catalog returns the validated parameter catalog.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// State is a snapshot of the active view.
type State struct {
	View     string            `json:"view"`
	Location string            `json:"location"`
	Params   map[string]string `json:"params"`
	Summary  string            `json:"summary,omitempty"`
}

// Navigate shows loc and returns the resulting state.
func (a *App) Navigate(loc string) (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.nav.NavigateTo(loc); err != nil {
		return State{}, err
	}
	return a.state()
}

// Back returns to the previous location.
func (a *App) Back() (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.nav.Back(); err != nil {
		return State{}, err
	}
	return a.state()
}

// Current returns the state of the active view.
func (a *App) Current() (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state()
}

// Do runs fn with the UI lock held. Views and the binder may only be touched
// from inside fn.
func (a *App) Do(fn func(b *binding.Binder) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.binder)
}

func (a *App) state() (State, error) {
	id, view := a.nav.Current()
	st := State{View: id, Location: a.nav.Location(), Params: map[string]string{}}
	if id == "" {
		return st, nil
	}
	params, err := a.binder.Externalize(id)
	if err != nil {
		return State{}, err
	}
	st.Params = params
	if s, ok := view.(fmt.Stringer); ok {
		st.Summary = s.String()
	}
	if st.Location == "" {
		st.Location = location.Build(id, params)
	}
	return st, nil
}
