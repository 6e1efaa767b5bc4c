package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/plotpipego/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("plotpipe", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Plotpipe - draw gnuplot sessions from declarative files.

Usage:
  plotpipe [options] SESSION_PATH

Arguments:
  SESSION_PATH
    Path to a saved session file, a single .hcl plot definition, or a
    directory of .hcl files merged in sorted order.

Options:
`)
		flagSet.PrintDefaults()
	}

	terminalFlag := flagSet.String("terminal", "", "Gnuplot terminal, e.g. 'pngcairo size 800,600'.")
	tFlag := flagSet.String("t", "", "Gnuplot terminal (shorthand).")
	outputFlag := flagSet.String("output", "", "Gnuplot output file. Usually combined with -terminal.")
	oFlag := flagSet.String("o", "", "Gnuplot output file (shorthand).")
	persistFlag := flagSet.Bool("persist", false, "Keep interactive plot windows open after exit.")
	interactiveFlag := flagSet.Bool("interactive", false, "Drop into a gnuplot command prompt after drawing.")
	watchFlag := flagSet.Bool("watch", false, "Redraw whenever the session definition changes.")
	saveFlag := flagSet.String("save", "", "Write the drawn session back out to this path.")
	gnuplotFlag := flagSet.String("gnuplot", "", "Command used to start gnuplot. Default 'gnuplot'.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-command reply timeout. 0 means the 10s default.")
	verboseFlag := flagSet.Bool("verbose", false, "Shorthand for -log-level debug.")
	vFlag := flagSet.Bool("v", false, "Shorthand for -log-level debug.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Session path determined.", "path", path)

	if path == "" {
		slog.Debug("No session path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "only one SESSION_PATH argument is allowed"}
	}

	terminal := *terminalFlag
	if terminal == "" {
		terminal = *tFlag
	}
	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = *oFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if *verboseFlag || *vFlag {
		logLevel = "debug"
	}
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SessionPath:    path,
		Terminal:       terminal,
		Output:         outputPath,
		GnuplotCommand: *gnuplotFlag,
		Persist:        *persistFlag,
		Interactive:    *interactiveFlag,
		Watch:          *watchFlag,
		SaveTo:         *saveFlag,
		Timeout:        *timeoutFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if err := app.ApplyEnv(config); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
