// Package viewstate holds the runtime value of one parameter inside one
// active view. A Cell keeps the committed value and, while a navigation is
// being applied, a staged value that has not been committed yet.
package viewstate

import (
	"fmt"
	"reflect"

	"github.com/specialistvlad/viewparams/internal/catalog"
)

// Cell is the state of one resolved parameter for one view instance. It is
// not safe for concurrent use; callers serialise access (see app.App).
type Cell struct {
	param     *catalog.Parameter
	committed any
	staged    any
	hasStaged bool
}

// New creates a cell with nothing committed.
func New(param *catalog.Parameter) *Cell {
	return &Cell{param: param}
}

// Parameter returns the resolved parameter the cell belongs to.
func (c *Cell) Parameter() *catalog.Parameter { return c.param }

// Stage records v as the pending value. Committed state and the view are
// left untouched.
func (c *Cell) Stage(v any) {
	c.staged = v
	c.hasStaged = true
}

// Staged returns the pending value, if there is one.
func (c *Cell) Staged() (any, bool) {
	return c.staged, c.hasStaged
}

// Commit promotes the staged value and pushes it to the view property. The
// staged value is cleared even when pushing fails.
func (c *Cell) Commit(view any) error {
	if !c.hasStaged {
		return nil
	}
	defer c.Flush()
	_, err := c.Set(c.staged, view, true)
	return err
}

// Flush drops any staged value.
func (c *Cell) Flush() {
	c.staged = nil
	c.hasStaged = false
}

// Set commits v. The view property is written when the value changed or
// notify is set. It reports whether the value changed.
func (c *Cell) Set(v any, view any, notify bool) (bool, error) {
	changed := !c.Equal(c.committed, v)
	c.committed = v
	if !changed && !notify {
		return false, nil
	}
	if prop := c.param.Property; prop != nil && prop.HasSetter() {
		if err := prop.Set(view, v); err != nil {
			return changed, fmt.Errorf("parameter %s: %w", c.param.Name, err)
		}
	}
	return changed, nil
}

// Get returns the current value. A staged value is visible while it exists.
// Otherwise a property that changed behind the cell's back is adopted as the
// committed value, without writing it back.
func (c *Cell) Get(view any) (any, error) {
	if c.hasStaged {
		return c.staged, nil
	}
	prop := c.param.Property
	if prop == nil || !prop.HasGetter() {
		return c.committed, nil
	}
	live, _, err := prop.Get(view)
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", c.param.Name, err)
	}
	if !c.Equal(live, c.committed) {
		c.committed = live
	}
	return c.committed, nil
}

// Committed returns the committed value without consulting the view.
func (c *Cell) Committed() any { return c.committed }

// Encode renders the current value with the parameter's converter. A zero
// value the converter cannot render, such as an unset enum, renders as "".
func (c *Cell) Encode(view any) (string, error) {
	v, err := c.Get(view)
	if err != nil {
		return "", err
	}
	s, err := c.param.Converter.Encode(v)
	if err != nil && isEmpty(v) {
		return "", nil
	}
	return s, err
}

// Equal compares two values of this parameter. nil equals a zero or empty
// value, and values whose encodings agree are equal, which makes collections
// compare as sets.
func (c *Cell) Equal(a, b any) bool {
	if isEmpty(a) && isEmpty(b) {
		return true
	}
	if isEmpty(a) != isEmpty(b) {
		return false
	}
	ea, errA := c.param.Converter.Encode(a)
	eb, errB := c.param.Converter.Encode(b)
	if errA == nil && errB == nil {
		return ea == eb
	}
	return reflect.DeepEqual(a, b)
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	default:
		return rv.IsZero()
	}
}
