package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/plotpipego/internal/ctxlog"
	"github.com/specialistvlad/plotpipego/internal/fsutil"
	"github.com/specialistvlad/plotpipego/internal/hclgrid"
	"github.com/specialistvlad/plotpipego/internal/session"
)

// loadSource reads the session definition at path. A directory means all of
// its .hcl files merged in sorted order, a .hcl file is a single-file grid,
// and anything else is read as a saved session envelope.
func loadSource(ctx context.Context, path string) (*source, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		paths, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no .hcl files found under %s", path)
		}
		logger.Debug("Loading grid directory.", "path", path, "files", len(paths))
		return loadGrid(ctx, paths)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		logger.Debug("Loading grid file.", "path", path)
		return loadGrid(ctx, []string{path})
	}

	logger.Debug("Loading saved session.", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	env, err := session.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &source{env: env, paths: []string{path}}, nil
}

func loadGrid(ctx context.Context, paths []string) (*source, error) {
	grid, err := hclgrid.NewLoader().Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	return &source{grid: grid, paths: paths}, nil
}
