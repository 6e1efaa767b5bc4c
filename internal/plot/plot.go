package plot

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/plotpipego/internal/ctxlog"
	"github.com/specialistvlad/plotpipego/internal/gnuplot"
)

// Session is the part of a gnuplot process a Plot drives. Implemented by
// *gnuplot.Process; tests substitute scripted fakes.
type Session interface {
	Exec(ctx context.Context, command string, data map[string][]byte) (string, error)
	Pause(ctx context.Context, params ...string) (string, error)
	Alive() bool
}

// Plot is an ordered, auto-refreshing list of plot items bound to a
// session. Mutating the list re-issues the plot command so the display
// always reflects the list.
type Plot struct {
	sess        Session
	verb        string
	items       []Item
	autoRefresh bool
	refreshing  bool

	// Description is free-form text carried into saved sessions.
	Description string
}

// New returns a Plot drawing with the `plot' command.
func New(sess Session) *Plot {
	return &Plot{sess: sess, verb: "plot", autoRefresh: true}
}

// NewSPlot returns a Plot drawing with the `splot' command.
func NewSPlot(sess Session) *Plot {
	return &Plot{sess: sess, verb: "splot", autoRefresh: true}
}

// Verb returns the plot command this instance draws with, "plot" or "splot".
func (p *Plot) Verb() string { return p.verb }

// Session returns the underlying gnuplot session.
func (p *Plot) Session() Session { return p.sess }

// Len returns the number of items.
func (p *Plot) Len() int { return len(p.items) }

// Items returns a copy of the item list in draw order.
func (p *Plot) Items() []Item {
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

// AutoRefresh reports whether mutations redraw the plot.
func (p *Plot) AutoRefresh() bool { return p.autoRefresh }

// SetAutoRefresh toggles redraw-on-mutation. Turning it on does not itself
// redraw; call Refresh for that.
func (p *Plot) SetAutoRefresh(on bool) { p.autoRefresh = on }

// Append adds items at the end of the draw order.
func (p *Plot) Append(ctx context.Context, items ...Item) error {
	p.items = append(p.items, items...)
	return p.maybeRefresh(ctx)
}

// Insert places an item at index i, shifting later items back.
func (p *Plot) Insert(ctx context.Context, i int, item Item) error {
	if i < 0 || i > len(p.items) {
		return fmt.Errorf("insert index %d out of range [0,%d]", i, len(p.items))
	}
	p.items = append(p.items[:i], append([]Item{item}, p.items[i:]...)...)
	return p.maybeRefresh(ctx)
}

// Set replaces the item at index i.
func (p *Plot) Set(ctx context.Context, i int, item Item) error {
	if i < 0 || i >= len(p.items) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(p.items))
	}
	p.items[i] = item
	return p.maybeRefresh(ctx)
}

// Remove deletes the item at index i.
func (p *Plot) Remove(ctx context.Context, i int) error {
	if i < 0 || i >= len(p.items) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(p.items))
	}
	p.items = append(p.items[:i], p.items[i+1:]...)
	return p.maybeRefresh(ctx)
}

// Pop removes and returns the last item.
func (p *Plot) Pop(ctx context.Context) (Item, error) {
	if len(p.items) == 0 {
		return Item{}, fmt.Errorf("pop from empty plot")
	}
	last := p.items[len(p.items)-1]
	p.items = p.items[:len(p.items)-1]
	return last, p.maybeRefresh(ctx)
}

// Clear removes all items.
func (p *Plot) Clear(ctx context.Context) error {
	p.items = nil
	return p.maybeRefresh(ctx)
}

// Keep retains only the items at the given indices, in the given order.
func (p *Plot) Keep(ctx context.Context, indices ...int) error {
	kept := make([]Item, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(p.items) {
			return fmt.Errorf("index %d out of range [0,%d)", i, len(p.items))
		}
		kept = append(kept, p.items[i])
	}
	p.items = kept
	return p.maybeRefresh(ctx)
}

// Exec sends an arbitrary command to the session and then redraws, so
// settings changes (ranges, styles, labels) take effect immediately.
func (p *Plot) Exec(ctx context.Context, command string, data map[string][]byte) (string, error) {
	result, err := p.sess.Exec(ctx, command, data)
	if err != nil {
		return result, err
	}
	return result, p.maybeRefresh(ctx)
}

// Source pipes a settings script to gnuplot's `load' command.
func (p *Plot) Source(ctx context.Context, script string) error {
	if !strings.HasSuffix(script, "\n") {
		script += "\n"
	}
	if _, err := p.sess.Exec(ctx, "load {{script}}", map[string][]byte{"script": []byte(script)}); err != nil {
		return fmt.Errorf("failed to source settings script: %w", err)
	}
	return nil
}

func (p *Plot) maybeRefresh(ctx context.Context) error {
	if !p.autoRefresh {
		return nil
	}
	return p.Refresh(ctx)
}

// Refresh redraws the plot from the item list, or clears the display when
// the list is empty. Reentrant calls (a refresh triggered while one is in
// progress) are no-ops, as are refreshes on a dead session.
func (p *Plot) Refresh(ctx context.Context) error {
	if p.refreshing || !p.sess.Alive() {
		return nil
	}
	p.refreshing = true
	defer func() { p.refreshing = false }()

	if len(p.items) == 0 {
		_, err := p.sess.Exec(ctx, "clear", nil)
		return err
	}
	command, data := p.buildCommand()
	ctxlog.FromContext(ctx).Debug("Refreshing plot.", "verb", p.verb, "items", len(p.items))
	result, err := p.sess.Exec(ctx, command, data)
	if err != nil {
		return err
	}
	if result != "" {
		return &gnuplot.CommandError{Cmd: p.verb, Message: cleanErrorMessage(result)}
	}
	return nil
}

// buildCommand assembles the plot command and the data map for its
// placeholders. Data items are marked volatile so gnuplot does not try to
// re-read the one-shot pipes on its own.
func (p *Plot) buildCommand() (string, map[string][]byte) {
	clauses := make([]string, 0, len(p.items))
	data := make(map[string][]byte)
	for i, item := range p.items {
		if !item.IsData() {
			clauses = append(clauses, item.Command)
			continue
		}
		name := fmt.Sprintf("item%03d", i)
		mode := ""
		if item.ViaFile {
			mode = "file:"
		}
		clause := fmt.Sprintf("{{%s%s}} volatile", mode, name)
		if item.Options != "" {
			clause += " " + item.Options
		}
		clauses = append(clauses, clause)
		data[name] = item.Data
	}
	return p.verb + " " + strings.Join(clauses, ", "), data
}

// cleanErrorMessage strips gnuplot's caret pointer and surrounding
// whitespace from an error reply.
func cleanErrorMessage(result string) string {
	msg := strings.TrimSpace(result)
	msg = strings.TrimLeft(msg, "^")
	return strings.TrimSpace(msg)
}

// withoutRefresh runs fn with auto-refresh suspended.
func (p *Plot) withoutRefresh(fn func() error) error {
	saved := p.autoRefresh
	p.autoRefresh = false
	defer func() { p.autoRefresh = saved }()
	return fn()
}
