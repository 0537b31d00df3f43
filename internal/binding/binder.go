// Package binding keeps the parameters of the active view and the displayed
// location in step.
//
// On every incoming navigation the Binder decodes the raw parameters, stages
// them, commits them to the view in one go and clears the staging area. When
// a value changes afterwards it re-encodes the view state and asks the
// navigation source to show the new location, without another transition.
package binding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/specialistvlad/viewparams/internal/location"
	"github.com/specialistvlad/viewparams/internal/navigator"
	"github.com/specialistvlad/viewparams/internal/viewstate"
)

var (
	// ErrInactiveView is returned when an operation names a view other than
	// the active one.
	ErrInactiveView = errors.New("view is not active")
	// ErrInternalizing is returned when externalisation is requested while
	// incoming parameters are still being committed.
	ErrInternalizing = errors.New("parameters are being internalized")
)

// Navigator is the part of the navigation source the Binder drives.
type Navigator interface {
	NavigateTo(loc string) error
	SetLocation(loc string)
}

type phase int

const (
	idle phase = iota
	internalizing
	externalizing
)

// Binder ties the parameter catalog to view transitions. It is a
// navigator.Listener and, like the navigator, must only be used from one
// goroutine at a time.
type Binder struct {
	logger  *slog.Logger
	catalog *catalog.Catalog
	nav     Navigator

	viewID string
	view   any
	cells  []*viewstate.Cell
	byName map[string]*viewstate.Cell

	phase   phase
	pending bool
}

var _ navigator.Listener = (*Binder)(nil)

// New creates a Binder with no active view.
func New(ctx context.Context, cat *catalog.Catalog, nav Navigator) *Binder {
	return &Binder{
		logger:  ctxlog.FromContext(ctx).With("component", "binding"),
		catalog: cat,
		nav:     nav,
	}
}

// BeforeViewChange internalizes the parameters of the view being entered.
// A failed commit does not stop the transition: the binder is already bound
// to the entered view and each parameter commits on its own.
func (b *Binder) BeforeViewChange(evt *navigator.ChangeEvent) error {
	if err := b.Internalize(evt.To, evt.View, evt.Params); err != nil {
		b.logger.Warn("Entered view with parameters that failed to commit.", "view", evt.To, "error", err)
	}
	return nil
}

// AfterViewChange publishes the canonical location of the entered view.
func (b *Binder) AfterViewChange(evt *navigator.ChangeEvent) {
	b.updateLocation()
}

// Active returns the id and instance of the view whose parameters are bound.
func (b *Binder) Active() (string, any) { return b.viewID, b.view }

// Internalize applies raw parameters to view. Parameters missing from raw
// and values that fail to decode fall back to their default. Staged values
// are committed together and always cleared, even when a commit fails.
func (b *Binder) Internalize(viewID string, view any, raw map[string]string) (err error) {
	b.attach(viewID, view)
	logger := b.logger.With("view", viewID)
	logger.Debug("Internalizing parameters.", "raw", raw)

	b.phase = internalizing
	defer func() {
		b.phase = idle
		pending := b.pending
		b.pending = false
		if pending && err == nil {
			b.updateLocation()
		}
	}()

	defer func() {
		for _, c := range b.cells {
			c.Flush()
		}
	}()

	for _, c := range b.cells {
		c.Stage(b.incoming(logger, c.Parameter(), raw))
	}

	var errs []error
	for _, c := range b.cells {
		if err := c.Commit(view); err != nil {
			logger.Error("Committing parameter failed.", "param", c.Parameter().Name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Binder) incoming(logger *slog.Logger, p *catalog.Parameter, raw map[string]string) any {
	s, ok := raw[p.Name]
	if !ok {
		return b.defaultValue(logger, p)
	}
	v, err := p.Converter.Decode(s)
	if err != nil {
		logger.Warn("Cannot decode parameter, using its default.", "param", p.Name, "value", s, "default", p.Default, "error", err)
		return b.defaultValue(logger, p)
	}
	return v
}

func (b *Binder) defaultValue(logger *slog.Logger, p *catalog.Parameter) any {
	v, err := p.DefaultValue()
	if err != nil {
		// Defaults are checked when the catalog is built.
		logger.Error("Default value does not decode.", "param", p.Name, "default", p.Default, "error", err)
		return nil
	}
	return v
}

// Externalize encodes the current parameter values of the active view.
// Parameters that encode to "" are left out.
func (b *Binder) Externalize(viewID string) (map[string]string, error) {
	if viewID != b.viewID {
		return nil, fmt.Errorf("%w: %q (active: %q)", ErrInactiveView, viewID, b.viewID)
	}
	if b.phase == internalizing {
		return nil, ErrInternalizing
	}
	b.phase = externalizing
	defer func() { b.phase = idle }()

	out := make(map[string]string, len(b.cells))
	for _, c := range b.cells {
		s, err := c.Encode(b.view)
		if err != nil {
			return nil, err
		}
		if s != "" {
			out[c.Parameter().Name] = s
		}
	}
	return out, nil
}

// Location returns the externalized location of the active view, or "" when
// no view is active.
func (b *Binder) Location() (string, error) {
	if b.viewID == "" {
		return "", nil
	}
	params, err := b.Externalize(b.viewID)
	if err != nil {
		return "", err
	}
	return location.Build(b.viewID, params), nil
}

// String renders the parameter part of the active view's location.
func (b *Binder) String() string {
	loc, err := b.Location()
	if err != nil {
		return ""
	}
	_, rest, _ := strings.Cut(loc, "/")
	return rest
}

// NavigateWithParameters navigates to viewID with the given values, each
// bound to the parameter whose type it matches. A bare value for a
// collection parameter becomes a one-element collection. Values matching no
// parameter are skipped.
func (b *Binder) NavigateWithParameters(viewID string, values ...any) error {
	params := make(map[string]string, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		t, err := convert.TypeOfValue(v)
		if err != nil {
			return fmt.Errorf("navigating to %s: %w", viewID, err)
		}
		m, ok := b.match(viewID, t, reflect.TypeOf(v))
		if !ok {
			b.logger.Warn("No parameter for value, skipping it.", "view", viewID, "type", t.String())
			continue
		}
		var s string
		if m.wrap {
			s, err = m.coll.EncodeElement(v)
		} else {
			s, err = m.param.Converter.Encode(v)
		}
		if err != nil {
			return fmt.Errorf("navigating to %s: %w", viewID, err)
		}
		if s != "" {
			params[m.param.Name] = s
		}
	}
	return b.nav.NavigateTo(location.Build(viewID, params))
}

// Put sets the active view's parameter of type t to v. nil or an empty
// collection restores the default. A type the active view does not declare
// is logged and ignored.
func (b *Binder) Put(t convert.Type, v any) error {
	var goType reflect.Type
	if v != nil {
		goType = reflect.TypeOf(v)
	}
	m, ok := b.match(b.viewID, t, goType)
	if !ok {
		b.logger.Warn("Put for an undeclared parameter type, ignoring it.", "view", b.viewID, "type", t.String())
		return nil
	}
	cell := b.byName[m.param.Name]

	value, err := b.normalise(m, v)
	if err != nil {
		return err
	}
	changed, err := cell.Set(value, b.view, false)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	b.logger.Debug("Parameter changed.", "view", b.viewID, "param", m.param.Name)
	if b.phase == internalizing {
		b.pending = true
		return nil
	}
	b.updateLocation()
	return nil
}

// PutValue is Put with the type taken from v itself.
func (b *Binder) PutValue(v any) error {
	t, err := convert.TypeOfValue(v)
	if err != nil {
		return err
	}
	return b.Put(t, v)
}

// PutValues sets a collection parameter of element type elem.
func (b *Binder) PutValues(elem convert.Type, values ...any) error {
	if len(values) == 0 {
		return b.Put(convert.Collection(elem), nil)
	}
	return b.Put(convert.Collection(elem), values)
}

// Get returns the active view's value for the parameter of type t. ok is
// false when the view declares no such parameter.
func (b *Binder) Get(t convert.Type) (v any, ok bool, err error) {
	m, found := b.match(b.viewID, t, nil)
	if !found {
		b.logger.Warn("Get for an undeclared parameter type.", "view", b.viewID, "type", t.String())
		return nil, false, nil
	}
	v, err = b.byName[m.param.Name].Get(b.view)
	return v, err == nil, err
}

// Refresh re-reads the active view's state and applies it again.
func (b *Binder) Refresh() error {
	if b.viewID == "" {
		return nil
	}
	params, err := b.Externalize(b.viewID)
	if err != nil {
		return err
	}
	if err := b.Internalize(b.viewID, b.view, params); err != nil {
		return err
	}
	b.updateLocation()
	return nil
}

// attach switches the bound cells to view. Re-entering the same instance
// keeps the committed values.
func (b *Binder) attach(viewID string, view any) {
	if b.cells != nil && viewID == b.viewID && sameView(view, b.view) {
		return
	}
	b.viewID = viewID
	b.view = view
	params := b.catalog.Parameters(viewID)
	b.cells = make([]*viewstate.Cell, len(params))
	b.byName = make(map[string]*viewstate.Cell, len(params))
	for i, p := range params {
		c := viewstate.New(p)
		b.cells[i] = c
		b.byName[p.Name] = c
	}
	b.logger.Debug("Bound view parameters.", "view", viewID, "params", len(params))
}

func (b *Binder) updateLocation() {
	loc, err := b.Location()
	if err != nil {
		b.logger.Error("Cannot externalize view parameters.", "view", b.viewID, "error", err)
		return
	}
	b.nav.SetLocation(loc)
}

func (b *Binder) normalise(m match, v any) (any, error) {
	if isEmptyCollection(v) {
		v = nil
	}
	if v == nil {
		return b.defaultValue(b.logger, m.param), nil
	}
	switch {
	case m.wrap:
		return m.coll.Wrap(v)
	case m.coll != nil:
		return m.coll.Normalize(v)
	default:
		return v, nil
	}
}

func sameView(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Kind() == reflect.Pointer {
		return ra.Pointer() == rb.Pointer()
	}
	return ra.Type().Comparable() && a == b
}

func isEmptyCollection(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 0
}
