package app

import (
	"github.com/specialistvlad/viewparams/internal/registry"
	"github.com/specialistvlad/viewparams/modules/builtin"
	"github.com/specialistvlad/viewparams/modules/demo"
)

// coreModules is the definitive list of all modules that are compiled into
// the viewparams binary.
func coreModules() []registry.Module {
	return []registry.Module{
		&builtin.Module{},
		&demo.Module{},
	}
}
