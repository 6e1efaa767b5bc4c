package hclgrid

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGridFile drops an .hcl file into dir and returns its path.
func writeGridFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_FullDefinition(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeGridFile(t, dir, "main.hcl", `
session {
  kind        = "splot"
  description = "a surface"
  persist     = true
}

settings {
  commands = [
    "set key off",
    "set grid",
  ]
}

item "surface" {
  expr    = "x*y"
  options = "with lines"
}

item "samples" {
  points  = [[0, 0, 0], [1, 1, 1]]
  options = "with points"
}
`)

	grid, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "splot", grid.Kind)
	assert.Equal(t, "a surface", grid.Description)
	assert.True(t, grid.Persist)
	assert.Equal(t, []string{"set key off", "set grid"}, grid.Settings)

	require.Len(t, grid.Items, 2)
	assert.Equal(t, "x*y with lines", grid.Items[0].Command)
	assert.True(t, grid.Items[1].IsData())
	assert.Equal(t, "0 0 0\n1 1 1\n", string(grid.Items[1].Data))
	assert.Equal(t, "with points", grid.Items[1].Options)
}

func TestLoad_DefaultsToPlotKind(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeGridFile(t, dir, "main.hcl", `
item "wave" {
  expr = "sin(x)"
}
`)

	grid, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plot", grid.Kind)
	assert.False(t, grid.Persist)
	require.Len(t, grid.Items, 1)
	assert.Equal(t, "sin(x)", grid.Items[0].Command)
}

func TestLoad_FileItemsResolveRelativePaths(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeGridFile(t, dir, "main.hcl", `
item "measured" {
  file    = "data/run1.dat"
  options = "using 1:2 with lines"
}
`)

	grid, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, grid.Items, 1)

	expected := "'" + filepath.Join(dir, "data", "run1.dat") + "' using 1:2 with lines"
	assert.Equal(t, expected, grid.Items[0].Command)
}

func TestLoad_AbsoluteFilePathsAreKept(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeGridFile(t, dir, "main.hcl", `
item "measured" {
  file = "/var/data/run1.dat"
}
`)

	grid, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "'/var/data/run1.dat'", grid.Items[0].Command)
}

func TestLoad_MergesMultipleFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	first := writeGridFile(t, dir, "01-base.hcl", `
session {
  kind = "plot"
}

settings {
  commands = ["set key off"]
}

item "wave" {
  expr = "sin(x)"
}
`)
	second := writeGridFile(t, dir, "02-extra.hcl", `
session {
  kind = "splot"
}

settings {
  commands = ["set grid"]
}

item "surface" {
  expr = "x*y"
}
`)

	grid, err := NewLoader().Load(context.Background(), first, second)
	require.NoError(t, err)

	assert.Equal(t, "splot", grid.Kind, "the last session block wins")
	assert.Equal(t, []string{"set key off", "set grid"}, grid.Settings)
	require.Len(t, grid.Items, 2)
	assert.Equal(t, "sin(x)", grid.Items[0].Command)
	assert.Equal(t, "x*y", grid.Items[1].Command)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "syntax error",
			content:  `item "broken" {`,
			expected: "failed to parse",
		},
		{
			name: "invalid kind",
			content: `
session {
  kind = "scatter"
}
`,
			expected: "invalid session kind",
		},
		{
			name: "no data source",
			content: `
item "empty" {
  options = "with lines"
}
`,
			expected: "exactly one of",
		},
		{
			name: "two data sources",
			content: `
item "double" {
  expr = "sin(x)"
  file = "data.dat"
}
`,
			expected: "exactly one of",
		},
		{
			name: "points not numeric",
			content: `
item "bad" {
  points = [["a", "b"]]
}
`,
			expected: "'points'",
		},
		{
			name: "points empty",
			content: `
item "bad" {
  points = []
}
`,
			expected: "'points' must not be empty",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeGridFile(t, t.TempDir(), "main.hcl", tc.content)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}
