package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/plotpipego/internal/ctxlog"
	"github.com/specialistvlad/plotpipego/internal/hclgrid"
	"github.com/specialistvlad/plotpipego/internal/session"
)

// source is the loaded session definition: either a declarative grid or a
// previously saved session envelope. paths lists the files it came from,
// which watch mode re-reads on change.
type source struct {
	grid  *hclgrid.Grid
	env   *session.Envelope
	paths []string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	inR    io.Reader
	outW   io.Writer
	logger *slog.Logger
	config *Config
	source *source
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the session
// definition already loaded.
func NewApp(inR io.Reader, outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	src, err := loadSource(ctx, cfg.SessionPath)
	if err != nil {
		// A failure to load the session definition is a fatal startup error.
		panic(fmt.Errorf("failed to load session definition: %w", err))
	}
	logger.Debug("Session definition loaded.", "path", cfg.SessionPath)

	return &App{
		inR:    inR,
		outW:   outW,
		logger: logger,
		config: cfg,
		source: src,
	}
}
