package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SessionPath string // saved session file, .hcl file, or directory of .hcl files

	Terminal       string // gnuplot terminal, e.g. "pngcairo size 800,600"
	Output         string // gnuplot output file, used with Terminal
	GnuplotCommand string // command line used to start gnuplot
	Persist        bool   // keep interactive plot windows open after exit
	Interactive    bool   // drop into a gnuplot command prompt after drawing
	Watch          bool   // redraw whenever the session definition changes
	SaveTo         string // write the drawn session back out to this path
	Timeout        time.Duration

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.SessionPath == "" {
		return nil, errors.New("SessionPath is a required configuration field and cannot be empty")
	}
	if cfg.Interactive && cfg.Watch {
		return nil, errors.New("interactive and watch modes are mutually exclusive")
	}

	return &cfg, nil
}
