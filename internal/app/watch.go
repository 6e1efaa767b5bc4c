package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/plotpipego/internal/gnuplot"
)

// watchDebounce coalesces the bursts of filesystem events editors emit on
// save into one redraw.
const watchDebounce = 250 * time.Millisecond

// watch redraws the plot whenever a file feeding the session definition
// changes. It returns when the context is cancelled or the gnuplot session
// dies.
func (a *App) watch(ctx context.Context, proc *gnuplot.Process) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent directories: editors commonly replace files on save,
	// which drops a watch placed on the file itself.
	dirs := map[string]bool{}
	for _, path := range a.source.paths {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	watched := map[string]bool{}
	for _, path := range a.source.paths {
		watched[filepath.Clean(path)] = true
	}

	var debounce <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			a.logger.Debug("Session definition changed.", "file", event.Name, "op", event.Op.String())
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			if !proc.Alive() {
				return gnuplot.ErrNotRunning
			}
			if err := a.redraw(ctx, proc); err != nil {
				// A broken definition mid-edit is expected; keep watching.
				a.logger.Warn("Redraw failed, keeping previous plot.", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Filesystem watcher error.", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// redraw reloads the session definition and draws it afresh on the same
// gnuplot session.
func (a *App) redraw(ctx context.Context, proc *gnuplot.Process) error {
	src, err := loadSource(ctx, a.config.SessionPath)
	if err != nil {
		return err
	}

	// Wipe the previous definition's settings before replaying the new one.
	if _, err := proc.Exec(ctx, "reset", nil); err != nil {
		return err
	}
	if err := a.applyOutput(ctx, proc); err != nil {
		return err
	}

	a.source = src
	p, err := a.draw(ctx, proc)
	if err != nil {
		return err
	}
	a.logger.Info("Plot redrawn.", "verb", p.Verb(), "items", p.Len())
	return nil
}
