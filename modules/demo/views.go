package demo

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/viewparams/internal/binding"
	"github.com/specialistvlad/viewparams/internal/convert"
)

// Tab is a tab of view one.
type Tab int

const (
	TabOne Tab = iota + 1
	TabTwo
	TabThree
)

var tabNames = map[Tab]string{
	TabOne:   "TAB_ONE",
	TabTwo:   "TAB_TWO",
	TabThree: "TAB_THREE",
}

func (t Tab) String() string {
	if n, ok := tabNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tab(%d)", int(t))
}

// Title is the label shown on the tab.
func (t Tab) Title() string {
	switch t {
	case TabOne:
		return "Tab One"
	case TabTwo:
		return "Tab Two"
	case TabThree:
		return "Tab Three"
	default:
		return t.String()
	}
}

// ViewOne is a tab sheet whose selected tab is kept in the location.
type ViewOne struct {
	state binding.Putter
	tab   Tab
}

func (v *ViewOne) BindState(p binding.Putter) { v.state = p }

func (v *ViewOne) Tab() Tab { return v.tab }

// SetTab shows t. It is called when the location changes.
func (v *ViewOne) SetTab(t Tab) { v.tab = t }

// SelectTab is what a click on a tab does: it shows t and reports the change.
func (v *ViewOne) SelectTab(t Tab) error {
	v.tab = t
	if v.state == nil {
		return nil
	}
	return v.state.PutValue(t)
}

func (v *ViewOne) String() string {
	if v.tab == 0 {
		return "no tab selected"
	}
	return "showing " + v.tab.Title()
}

// ViewTwo is a grid with a single selection.
type ViewTwo struct {
	state    binding.Putter
	selected Item
}

func (v *ViewTwo) BindState(p binding.Putter) { v.state = p }

func (v *ViewTwo) SelectedValue() Item { return v.selected }

func (v *ViewTwo) SetSelectedValue(it Item) { v.selected = it }

// Select selects it in the grid and reports the change.
func (v *ViewTwo) Select(it Item) error {
	v.selected = it
	if v.state == nil {
		return nil
	}
	return v.state.PutValue(it)
}

// ClearSelection deselects the grid; the parameter falls back to its default.
func (v *ViewTwo) ClearSelection() error {
	v.selected = Item{}
	if v.state == nil {
		return nil
	}
	return v.state.Put(convert.Simple("Item"), nil)
}

func (v *ViewTwo) String() string {
	if v.selected.ID == 0 {
		return "nothing selected"
	}
	return fmt.Sprintf("selected %d (%s)", v.selected.ID, v.selected.Value)
}

// ViewThree is a grid with multi selection.
type ViewThree struct {
	state    binding.Putter
	selected []Item
}

func (v *ViewThree) BindState(p binding.Putter) { v.state = p }

func (v *ViewThree) SelectedItems() []Item { return v.selected }

func (v *ViewThree) SetSelectedItems(items []Item) { v.selected = items }

// Select replaces the selection with items and reports the change.
func (v *ViewThree) Select(items ...Item) error {
	v.selected = items
	if v.state == nil {
		return nil
	}
	values := make([]any, len(items))
	for i, it := range items {
		values[i] = it
	}
	return v.state.PutValues(convert.Simple("Item"), values...)
}

func (v *ViewThree) String() string {
	if len(v.selected) == 0 {
		return "nothing selected"
	}
	ids := make([]string, len(v.selected))
	for i, it := range v.selected {
		ids[i] = fmt.Sprint(it.ID)
	}
	return "selected " + strings.Join(ids, ", ")
}
