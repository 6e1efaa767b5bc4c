package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/plotpipego/internal/ctxlog"
	"github.com/specialistvlad/plotpipego/internal/gnuplot"
	"github.com/specialistvlad/plotpipego/internal/plot"
)

// Run executes the main application logic: start gnuplot, draw the loaded
// session, then hand off to save/interactive/watch mode as configured.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	persist := a.config.Persist
	if a.source.grid != nil && a.source.grid.Persist {
		persist = true
	}

	proc, err := gnuplot.Spawn(ctx, gnuplot.Options{
		Command: a.config.GnuplotCommand,
		Persist: persist,
		Timeout: a.config.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to start gnuplot: %w", err)
	}
	defer proc.Close()

	if err := a.applyOutput(ctx, proc); err != nil {
		return err
	}

	p, err := a.draw(ctx, proc)
	if err != nil {
		return err
	}
	a.logger.Info("Plot drawn.", "verb", p.Verb(), "items", p.Len())

	if a.config.Output != "" {
		// Flush and release the output file.
		if _, err := proc.Exec(ctx, "unset output", nil); err != nil {
			return err
		}
	}

	if a.config.SaveTo != "" {
		if err := p.SaveFile(ctx, a.config.SaveTo); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		a.logger.Info("Session saved.", "path", a.config.SaveTo)
	}

	switch {
	case a.config.Interactive:
		a.logger.Debug("Entering interactive mode.")
		return proc.Interact(ctx, a.inR, a.outW)
	case a.config.Watch:
		a.logger.Debug("Entering watch mode.", "paths", a.source.paths)
		return a.watch(ctx, proc)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// applyOutput routes drawing to the configured terminal and output file.
func (a *App) applyOutput(ctx context.Context, proc *gnuplot.Process) error {
	if a.config.Terminal != "" {
		if _, err := proc.Exec(ctx, "set terminal "+a.config.Terminal, nil); err != nil {
			return fmt.Errorf("failed to set terminal: %w", err)
		}
	}
	if a.config.Output != "" {
		if _, err := proc.Exec(ctx, "set output "+gnuplot.Quote(a.config.Output), nil); err != nil {
			return fmt.Errorf("failed to set output: %w", err)
		}
	}
	return nil
}

// draw builds the plot from the loaded source on the given process.
func (a *App) draw(ctx context.Context, proc *gnuplot.Process) (*plot.Plot, error) {
	if a.source.env != nil {
		p, err := plot.Restore(ctx, a.source.env, proc)
		if err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", err)
		}
		return p, nil
	}

	grid := a.source.grid
	var p *plot.Plot
	if grid.Kind == "splot" {
		p = plot.NewSPlot(proc)
	} else {
		p = plot.New(proc)
	}
	p.Description = grid.Description

	// Settings and items go in with auto-refresh off so the plot is drawn
	// exactly once, fully assembled.
	p.SetAutoRefresh(false)
	for _, command := range grid.Settings {
		if _, err := proc.Exec(ctx, command, nil); err != nil {
			return nil, fmt.Errorf("settings command %q failed: %w", command, err)
		}
	}
	if err := p.Append(ctx, grid.Items...); err != nil {
		return nil, err
	}
	p.SetAutoRefresh(true)

	if err := p.Refresh(ctx); err != nil {
		return nil, err
	}
	return p, nil
}
