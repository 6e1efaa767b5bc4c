package hclgrid

import "github.com/specialistvlad/plotpipego/internal/plot"

// Grid is the format-agnostic model of a declarative plot definition.
type Grid struct {
	// Kind is the plot verb, "plot" or "splot".
	Kind string
	// Description is free-form text carried into saved sessions.
	Description string
	// Persist asks for the plot window to outlive the process.
	Persist bool
	// Settings are gnuplot commands replayed before the first draw.
	Settings []string
	// Items is the draw-ordered item list.
	Items []plot.Item
}
