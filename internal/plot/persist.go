package plot

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/plotpipego/internal/session"
)

// SaveTo writes the plot as a saved session: the current gnuplot settings
// (captured with `save '-'` and filtered) plus the item list.
func (p *Plot) SaveTo(ctx context.Context, w io.Writer) error {
	script, err := p.sess.Exec(ctx, "save '-'", nil)
	if err != nil {
		return fmt.Errorf("failed to capture gnuplot settings: %w", err)
	}

	items := make([]session.Item, 0, len(p.items))
	for _, it := range p.items {
		items = append(items, session.Item{
			Command: it.Command,
			Data:    it.Data,
			Options: it.Options,
			ViaFile: it.ViaFile,
		})
	}

	return session.Write(w, &session.Envelope{
		Description: p.Description,
		PlotCmd:     p.verb,
		Script:      session.FilterSettings(script),
		Items:       items,
	})
}

// SaveFile writes the saved session to a file.
func (p *Plot) SaveFile(ctx context.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	if err := p.SaveTo(ctx, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Restore builds a plot on the given session from a decoded envelope: the
// settings script is replayed through `load', then the items are restored
// and drawn once.
func Restore(ctx context.Context, env *session.Envelope, sess Session) (*Plot, error) {
	var p *Plot
	switch env.PlotCmd {
	case "plot":
		p = New(sess)
	case "splot":
		p = NewSPlot(sess)
	default:
		return nil, fmt.Errorf("unknown plot type %q in session", env.PlotCmd)
	}
	p.Description = env.Description
	p.autoRefresh = false

	if env.Script != "" {
		if err := p.Source(ctx, env.Script); err != nil {
			return nil, err
		}
	}
	for _, it := range env.Items {
		p.items = append(p.items, Item{
			Command: it.Command,
			Data:    it.Data,
			Options: it.Options,
			ViaFile: it.ViaFile,
		})
	}
	p.autoRefresh = true
	if err := p.Refresh(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFrom reads a saved session and restores it on the given session.
func LoadFrom(ctx context.Context, r io.Reader, sess Session) (*Plot, error) {
	env, err := session.Read(r)
	if err != nil {
		return nil, err
	}
	return Restore(ctx, env, sess)
}

// LoadFile restores a saved session from a file.
func LoadFile(ctx context.Context, path string, sess Session) (*Plot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer f.Close()
	return LoadFrom(ctx, f, sess)
}
