package gnuplot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// getVarPattern extracts the variable value from the guarded print reply.
// The guards keep the match unambiguous even when gnuplot emits warnings
// around it.
var getVarPattern = regexp.MustCompile(`GETVAR_LEFT (.*) GETVAR_RIGHT`)

// GetVar returns the value of a gnuplot variable as a string. The second
// return value is false when the variable is undefined.
func (p *Process) GetVar(ctx context.Context, name string) (string, bool, error) {
	result, err := p.Exec(ctx, fmt.Sprintf(`print "GETVAR_LEFT ", %s, " GETVAR_RIGHT"`, name), nil)
	if err != nil {
		return "", false, err
	}
	match := getVarPattern.FindStringSubmatch(result)
	if match == nil {
		return "", false, nil
	}
	return match[1], true, nil
}

// GetVarFloat returns the value of a gnuplot variable as a float64. The
// second return value is false when the variable is undefined or not
// numeric.
func (p *Process) GetVarFloat(ctx context.Context, name string) (float64, bool, error) {
	raw, ok, err := p.GetVar(ctx, name)
	if err != nil || !ok {
		return 0, false, err
	}
	v, perr := strconv.ParseFloat(raw, 64)
	if perr != nil {
		return 0, false, nil
	}
	return v, true, nil
}

// GetVarInt returns the value of a gnuplot variable as an int. The second
// return value is false when the variable is undefined or not an integer.
func (p *Process) GetVarInt(ctx context.Context, name string) (int, bool, error) {
	raw, ok, err := p.GetVar(ctx, name)
	if err != nil || !ok {
		return 0, false, err
	}
	v, perr := strconv.Atoi(raw)
	if perr != nil {
		return 0, false, nil
	}
	return v, true, nil
}
