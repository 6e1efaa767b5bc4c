package plot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// getVarPattern extracts the value from a guarded print reply. The guards
// keep the match unambiguous even when gnuplot emits warnings around it.
var getVarPattern = regexp.MustCompile(`GETVAR_LEFT (.*) GETVAR_RIGHT`)

// getVar reads a gnuplot variable without triggering a refresh. The bool is
// false when the variable is undefined.
func (p *Plot) getVar(ctx context.Context, name string) (string, bool, error) {
	result, err := p.sess.Exec(ctx, fmt.Sprintf(`print "GETVAR_LEFT ", %s, " GETVAR_RIGHT"`, name), nil)
	if err != nil {
		return "", false, err
	}
	match := getVarPattern.FindStringSubmatch(result)
	if match == nil {
		return "", false, nil
	}
	return match[1], true, nil
}

func (p *Plot) getVarFloat(ctx context.Context, name string) (float64, bool, error) {
	raw, ok, err := p.getVar(ctx, name)
	if err != nil || !ok {
		return 0, false, err
	}
	v, perr := strconv.ParseFloat(raw, 64)
	if perr != nil {
		return 0, false, nil
	}
	return v, true, nil
}

func (p *Plot) getVarInt(ctx context.Context, name string) (int, bool, error) {
	raw, ok, err := p.getVar(ctx, name)
	if err != nil || !ok {
		return 0, false, err
	}
	v, perr := strconv.Atoi(raw)
	if perr != nil {
		return 0, false, nil
	}
	return v, true, nil
}
