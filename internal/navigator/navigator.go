// Package navigator is the navigation source: it owns the registered views,
// switches between them when a location is requested, and raises
// before/after events that parameter binding hooks into.
//
// A Navigator is not safe for concurrent use. All calls must come from the
// goroutine that owns the UI, or be serialised by the caller.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/specialistvlad/viewparams/internal/location"
)

var (
	ErrUnknownView = errors.New("unknown view")
	ErrNoView      = errors.New("no view requested and no fallback view set")
	ErrNoHistory   = errors.New("no previous location")
	ErrNavigating  = errors.New("navigation already in progress")
)

// ChangeEvent describes one view transition.
type ChangeEvent struct {
	// From is the id of the view being left, empty on the first navigation.
	From    string
	OldView any
	// To is the id of the view being entered.
	To     string
	View   any
	Params map[string]string
	// Location is the requested location as received.
	Location string
}

// Listener hooks into view transitions. A BeforeViewChange error aborts the
// transition and leaves the current view in place.
type Listener interface {
	BeforeViewChange(evt *ChangeEvent) error
	AfterViewChange(evt *ChangeEvent)
}

// Enterer is implemented by views that want to know when they are shown.
type Enterer interface {
	Enter(evt *ChangeEvent)
}

// Navigator switches between registered views.
type Navigator struct {
	logger    *slog.Logger
	views     map[string]any
	fallback  string
	listeners []Listener
	observers []func(loc string)

	currentID   string
	currentView any
	location    string
	published   string
	navigating  bool
	history     history
}

// New creates a navigator with no views.
func New(ctx context.Context) *Navigator {
	return &Navigator{
		logger: ctxlog.FromContext(ctx).With("component", "navigator"),
		views:  make(map[string]any),
	}
}

// Register adds a view instance under id. The same instance is shown every
// time id is navigated to. Registering an id twice panics.
func (n *Navigator) Register(id string, view any) *Navigator {
	if id == "" || view == nil {
		panic("navigator: view id and view must not be empty")
	}
	if _, exists := n.views[id]; exists {
		panic(fmt.Sprintf("view with id '%s' already registered", id))
	}
	n.logger.Debug("Registering view.", "view", id, "type", fmt.Sprintf("%T", view))
	n.views[id] = view
	return n
}

// SetFallback sets the view used for an empty location.
func (n *Navigator) SetFallback(id string) *Navigator {
	n.fallback = id
	return n
}

// AddListener subscribes l to view transitions, in order of registration.
func (n *Navigator) AddListener(l Listener) *Navigator {
	n.listeners = append(n.listeners, l)
	return n
}

// OnLocationChange registers fn to receive every new displayed location.
func (n *Navigator) OnLocationChange(fn func(loc string)) *Navigator {
	n.observers = append(n.observers, fn)
	return n
}

// Views returns the Go type of every registered view by id.
func (n *Navigator) Views() map[string]reflect.Type {
	out := make(map[string]reflect.Type, len(n.views))
	for id, v := range n.views {
		out[id] = reflect.TypeOf(v)
	}
	return out
}

// ViewIDs lists the registered view ids, sorted.
func (n *Navigator) ViewIDs() []string {
	ids := make([]string, 0, len(n.views))
	for id := range n.views {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Current returns the active view id and instance.
func (n *Navigator) Current() (string, any) {
	return n.currentID, n.currentView
}

// Location returns the displayed location.
func (n *Navigator) Location() string { return n.location }

// History returns the visited locations, oldest first.
func (n *Navigator) History() []string { return n.history.snapshot() }

// NavigateTo shows the view named by loc and hands its parameters to the
// listeners.
func (n *Navigator) NavigateTo(loc string) error {
	return n.navigate(loc, true)
}

// Back returns to the previous location.
func (n *Navigator) Back() error {
	loc, ok := n.history.pop()
	if !ok {
		return ErrNoHistory
	}
	if err := n.navigate(loc, false); err != nil {
		n.history.push(loc)
		return err
	}
	return nil
}

// SetLocation replaces the displayed location without a transition.
func (n *Navigator) SetLocation(loc string) {
	n.logger.Debug("Location updated.", "location", loc)
	n.location = loc
	if !n.navigating {
		n.publish()
	}
}

func (n *Navigator) navigate(loc string, remember bool) error {
	if n.navigating {
		return fmt.Errorf("%w: cannot navigate to %q", ErrNavigating, loc)
	}

	id, params := location.Parse(loc)
	if id == "" {
		id = n.fallback
	}
	if id == "" {
		return ErrNoView
	}
	view, ok := n.views[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, id)
	}

	evt := &ChangeEvent{
		From:     n.currentID,
		OldView:  n.currentView,
		To:       id,
		View:     view,
		Params:   params,
		Location: loc,
	}
	logger := n.logger.With("from", evt.From, "to", evt.To)
	logger.Debug("Navigating.", "location", loc)

	n.navigating = true
	defer func() { n.navigating = false }()

	for _, l := range n.listeners {
		if err := l.BeforeViewChange(evt); err != nil {
			logger.Warn("View change rejected.", "error", err)
			return fmt.Errorf("navigating to %q: %w", loc, err)
		}
	}

	if remember && n.location != "" {
		n.history.push(n.location)
	}
	n.currentID = id
	n.currentView = view
	n.location = location.Build(id, params)

	if e, ok := view.(Enterer); ok {
		e.Enter(evt)
	}
	for _, l := range n.listeners {
		l.AfterViewChange(evt)
	}

	n.navigating = false
	n.publish()
	logger.Debug("Navigation finished.", "location", n.location)
	return nil
}

func (n *Navigator) publish() {
	if n.location == n.published {
		return
	}
	n.published = n.location
	for _, fn := range n.observers {
		fn(n.location)
	}
}
