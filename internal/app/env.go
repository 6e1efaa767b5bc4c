package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envOverrides are configuration values picked up from the environment when
// the matching flags were left at their defaults.
type envOverrides struct {
	GnuplotCommand string        `env:"PLOTPIPE_GNUPLOT"`
	Terminal       string        `env:"PLOTPIPE_TERMINAL"`
	Timeout        time.Duration `env:"PLOTPIPE_TIMEOUT"`
}

// ApplyEnv fills unset config fields from PLOTPIPE_* environment variables.
// Flags always win over the environment.
func ApplyEnv(cfg *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if cfg.GnuplotCommand == "" && overrides.GnuplotCommand != "" {
		cfg.GnuplotCommand = overrides.GnuplotCommand
	}
	if cfg.Terminal == "" && overrides.Terminal != "" {
		cfg.Terminal = overrides.Terminal
	}
	if cfg.Timeout == 0 && overrides.Timeout != 0 {
		cfg.Timeout = overrides.Timeout
	}
	return nil
}
