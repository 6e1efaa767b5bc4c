package hclgrid

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/plotpipego/internal/ctxlog"
	"github.com/specialistvlad/plotpipego/internal/gnuplot"
	"github.com/specialistvlad/plotpipego/internal/numdata"
	"github.com/specialistvlad/plotpipego/internal/plot"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Loader parses .hcl plot definition files into a Grid.
type Loader struct{}

// NewLoader creates a new HCL plot definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all top-level blocks from one file.
type fileRoot struct {
	Session  *sessionBlock    `hcl:"session,block"`
	Settings []*settingsBlock `hcl:"settings,block"`
	Items    []*itemBlock     `hcl:"item,block"`
}

type sessionBlock struct {
	Kind        *string `hcl:"kind,optional"`
	Description *string `hcl:"description,optional"`
	Persist     *bool   `hcl:"persist,optional"`
}

type settingsBlock struct {
	Commands []string `hcl:"commands"`
}

type itemBlock struct {
	Name    string    `hcl:"name,label"`
	Expr    *string   `hcl:"expr,optional"`
	File    *string   `hcl:"file,optional"`
	Points  cty.Value `hcl:"points,optional"`
	Options *string   `hcl:"options,optional"`
}

// Load parses the given files and merges them into one Grid. Settings
// concatenate and items append in file order; the last session block wins.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Grid, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL grid loader started.", "path_count", len(paths))

	grid := &Grid{Kind: "plot"}
	parser := hclparse.NewParser()

	for _, path := range paths {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
		}

		if root.Session != nil {
			if err := applySession(grid, root.Session); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		for _, block := range root.Settings {
			grid.Settings = append(grid.Settings, block.Commands...)
		}
		for _, block := range root.Items {
			item, err := translateItem(block, filepath.Dir(path))
			if err != nil {
				return nil, fmt.Errorf("%s: item %q: %w", path, block.Name, err)
			}
			grid.Items = append(grid.Items, item)
		}
	}

	logger.Debug("HCL grid loading complete.",
		"kind", grid.Kind, "settings", len(grid.Settings), "items", len(grid.Items))
	return grid, nil
}

func applySession(grid *Grid, block *sessionBlock) error {
	if block.Kind != nil {
		switch *block.Kind {
		case "plot", "splot":
			grid.Kind = *block.Kind
		default:
			return fmt.Errorf("invalid session kind %q: must be 'plot' or 'splot'", *block.Kind)
		}
	}
	if block.Description != nil {
		grid.Description = *block.Description
	}
	if block.Persist != nil {
		grid.Persist = *block.Persist
	}
	return nil
}

// translateItem turns one item block into a plot item. Exactly one of
// expr, file and points must be set. Relative file paths are resolved
// against the grid file's directory.
func translateItem(block *itemBlock, baseDir string) (plot.Item, error) {
	options := ""
	if block.Options != nil {
		options = *block.Options
	}

	sources := 0
	if block.Expr != nil {
		sources++
	}
	if block.File != nil {
		sources++
	}
	if !block.Points.IsNull() && block.Points != cty.NilVal {
		sources++
	}
	if sources != 1 {
		return plot.Item{}, fmt.Errorf("exactly one of 'expr', 'file' or 'points' must be set")
	}

	switch {
	case block.Expr != nil:
		command := *block.Expr
		if options != "" {
			command += " " + options
		}
		return plot.CommandItem(command), nil

	case block.File != nil:
		path := *block.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		command := gnuplot.Quote(path)
		if options != "" {
			command += " " + options
		}
		return plot.CommandItem(command), nil

	default:
		points, err := decodePoints(block.Points)
		if err != nil {
			return plot.Item{}, err
		}
		return plot.DataItem(numdata.Rows(points), options), nil
	}
}

// decodePoints converts the `points' attribute value to rows of floats.
func decodePoints(v cty.Value) ([][]float64, error) {
	conv, err := convert.Convert(v, cty.List(cty.List(cty.Number)))
	if err != nil {
		return nil, fmt.Errorf("'points' must be a list of number lists: %w", err)
	}
	if conv.LengthInt() == 0 {
		return nil, fmt.Errorf("'points' must not be empty")
	}

	var rows [][]float64
	for it := conv.ElementIterator(); it.Next(); {
		_, rowVal := it.Element()
		var row []float64
		for rit := rowVal.ElementIterator(); rit.Next(); {
			_, numVal := rit.Element()
			f, _ := numVal.AsBigFloat().Float64()
			row = append(row, f)
		}
		if len(row) == 0 {
			return nil, fmt.Errorf("'points' rows must not be empty")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
