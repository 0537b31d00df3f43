// Package manifest reads parameter declarations from HCL files.
//
//	enum "Colour" {
//	  values = ["RED", "GREEN", "BLUE"]
//	}
//
//	view "palette" {
//	  param "colour" {
//	    default = "RED"
//	  }
//	  param "picked" {
//	    type      = list(Colour)
//	    converter = "colour-list"
//	  }
//	}
//
// Every attribute of a param block is optional. Without a type the parameter
// type comes from the matching property of the view.
package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/viewparams/internal/catalog"
	"github.com/specialistvlad/viewparams/internal/ctxlog"
	"github.com/specialistvlad/viewparams/internal/fsutil"
)

// Extension is the file extension of manifest files.
const Extension = ".hcl"

// Model is the format-agnostic result of loading manifests.
type Model struct {
	Definitions []catalog.Definition
	Enums       []Enum
}

// Enum declares a symbolic enum converter without Go code.
type Enum struct {
	Name   string
	Values []string
	Source string
}

// Merge appends other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Definitions = append(m.Definitions, other.Definitions...)
	m.Enums = append(m.Enums, other.Enums...)
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Views  []*viewBlock `hcl:"view,block"`
	Enums  []*enumBlock `hcl:"enum,block"`
	Remain hcl.Body     `hcl:",remain"`
}

type viewBlock struct {
	ID     string        `hcl:"id,label"`
	Params []*paramBlock `hcl:"param,block"`
}

type paramBlock struct {
	Name      string         `hcl:"name,label"`
	Type      hcl.Expression `hcl:"type,optional"`
	Default   *string        `hcl:"default,optional"`
	Converter *string        `hcl:"converter,optional"`
}

type enumBlock struct {
	Name   string   `hcl:"name,label"`
	Values []string `hcl:"values"`
}

// Loader reads manifests from the file system or from memory.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads every manifest file under paths. Directories are walked
// recursively; paths that do not exist are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 && len(paths) > 0 {
		logger.Warn("No manifest files found.", "paths", paths)
	}
	logger.Debug("Discovered manifest files.", "files", files)

	model := &Model{}
	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		m, err := l.decode(ctx, file, hclFile)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}

	logger.Debug("Manifest loading complete.", "definitions", len(model.Definitions), "enums", len(model.Enums))
	return model, nil
}

// Parse reads one manifest held in memory, such as one embedded in a module.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*Model, error) {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, hclFile)
}

func (l *Loader) decode(ctx context.Context, filename string, file *hcl.File) (*Model, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model := &Model{}
	for _, e := range root.Enums {
		decl, err := translateEnum(filename, e)
		if err != nil {
			return nil, err
		}
		model.Enums = append(model.Enums, decl)
	}
	for _, v := range root.Views {
		for _, p := range v.Params {
			def, err := translateParam(ctx, filename, v.ID, p)
			if err != nil {
				return nil, err
			}
			model.Definitions = append(model.Definitions, def)
		}
		logger.Debug("Loaded view parameters.", "view", v.ID, "params", len(v.Params))
	}
	return model, nil
}
