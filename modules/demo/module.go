// Package demo is a small three-view application whose state lives in the
// location: a tab sheet, a single-selection grid and a multi-selection grid.
package demo

import (
	_ "embed"

	"github.com/specialistvlad/viewparams/internal/convert"
	"github.com/specialistvlad/viewparams/internal/registry"
)

//go:embed views.hcl
var manifestSrc []byte

// DefaultItemCount is the number of grid rows when Module.Items is empty.
const DefaultItemCount = 100

// Module implements the registry.Module interface for this package.
type Module struct {
	// Items are the grid rows of views two and three.
	Items []Item
}

// Register registers the tab enum, the item converters, the three views
// and their manifest. View one is the default view.
func (m *Module) Register(r *registry.Registry) {
	items := m.Items
	if len(items) == 0 {
		items = DefaultItems(DefaultItemCount)
	}
	itemConv := NewItemConverter(items)

	r.RegisterConverter(convert.NewEnum(TabOne, TabTwo, TabThree)).
		RegisterKeyedConverter("item", itemConv).
		RegisterKeyedConverter("items", convert.NewCollection(itemConv)).
		RegisterView("one", &ViewOne{}).
		RegisterView("two", &ViewTwo{}).
		RegisterView("three", &ViewThree{}).
		SetDefaultView("one").
		RegisterManifest("demo/views.hcl", manifestSrc)
}
