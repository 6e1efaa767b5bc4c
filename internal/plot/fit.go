package plot

import (
	"context"
	"fmt"
	"strings"
)

// FitOptions tunes a gnuplot `fit' run.
type FitOptions struct {
	// Ranges restricts the fit, e.g. "[0:10]".
	Ranges string
	// Limit sets FIT_LIMIT. Zero means 1e-5.
	Limit float64
	// MaxIter sets FIT_MAXITER. Zero means unlimited.
	MaxIter int
	// StartLambda and LambdaFactor set the corresponding FIT_ variables.
	// Zero leaves gnuplot's defaults in effect.
	StartLambda  float64
	LambdaFactor float64
}

// FitResult carries fitted parameter values, their asymptotic standard
// errors and gnuplot's fit log. A parameter missing from the maps could not
// be read back after the fit.
type FitResult struct {
	Params map[string]float64
	Errors map[string]float64
	Log    string
}

// Fit runs gnuplot's `fit' for expr against a data item, adjusting the
// named parameters. The fit log is captured from the command output while
// the logfile is routed to /dev/null; error variables are collected per
// parameter. The plot is redrawn afterwards when auto-refresh is on.
func (p *Plot) Fit(ctx context.Context, data Item, expr string, via []string, opts FitOptions) (*FitResult, error) {
	if !data.IsData() {
		return nil, fmt.Errorf("fit data must be a data item, not a command string")
	}
	if len(via) == 0 {
		return nil, fmt.Errorf("fit requires at least one parameter to adjust")
	}

	var result *FitResult
	err := p.withoutRefresh(func() error {
		limit := opts.Limit
		if limit == 0 {
			limit = 1e-5
		}
		setup := []string{
			fmt.Sprintf("FIT_LIMIT = %e", limit),
			fmt.Sprintf("FIT_MAXITER = %d", opts.MaxIter),
			fmt.Sprintf("FIT_START_LAMBDA = %e", opts.StartLambda),
			fmt.Sprintf("FIT_LAMBDA_FACTOR = %e", opts.LambdaFactor),
			"set fit logfile '/dev/null' errorvariables",
		}
		for _, cmd := range setup {
			if _, err := p.sess.Exec(ctx, cmd, nil); err != nil {
				return err
			}
		}

		spec := "{{fitdata}} volatile"
		if data.ViaFile {
			spec = "{{file:fitdata}} volatile"
		}
		if data.Options != "" {
			spec += " " + data.Options
		}
		parts := []string{"fit"}
		if opts.Ranges != "" {
			parts = append(parts, opts.Ranges)
		}
		parts = append(parts, expr, spec, "via", strings.Join(via, ", "))

		log, err := p.sess.Exec(ctx, strings.Join(parts, " "), map[string][]byte{"fitdata": data.Data})
		if err != nil {
			return err
		}
		if _, err := p.sess.Exec(ctx, "unset fit", nil); err != nil {
			return err
		}

		result = &FitResult{
			Params: make(map[string]float64, len(via)),
			Errors: make(map[string]float64, len(via)),
			Log:    strings.TrimSpace(log) + "\n",
		}
		for _, name := range via {
			if v, ok, err := p.getVarFloat(ctx, name); err != nil {
				return err
			} else if ok {
				result.Params[name] = v
			}
			if v, ok, err := p.getVarFloat(ctx, name+"_err"); err != nil {
				return err
			} else if ok {
				result.Errors[name] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := p.maybeRefresh(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
