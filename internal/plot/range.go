package plot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Range is an axis range. A nil bound means autoscale (`*').
type Range struct {
	Min *float64
	Max *float64
}

// RangeSettings describes one axis range: the configured setting, whether
// the axis is reversed, and the actual range of the last plot (GPVAL).
type RangeSettings struct {
	Setting  Range
	Reversed bool
	Current  Range
}

// rangeName is the gnuplot option name for an axis/coordinate-system pair,
// e.g. ("x", 2) -> "x2range".
func rangeName(axis string, system int) string {
	if system == 2 {
		return axis + "2range"
	}
	return axis + "range"
}

// gpvalAxis is the axis name used in GPVAL_* variables, e.g. ("y", 2) -> "Y2".
func gpvalAxis(axis string, system int) string {
	name := strings.ToUpper(axis)
	if system == 2 {
		name += "2"
	}
	return name
}

// ShowRange reads the configured and current range of an axis. The result
// is nil when gnuplot's `show' output cannot be parsed (no plot drawn yet
// in some builds).
func (p *Plot) ShowRange(ctx context.Context, axis string, system int) (*RangeSettings, error) {
	name := rangeName(axis, system)
	result, err := p.sess.Exec(ctx, "show "+name, nil)
	if err != nil {
		return nil, err
	}

	pattern, err := regexp.Compile(`set +` + name + ` +\[ *([^ :]+) *: *([^ :]+) *\] +(no)?reverse`)
	if err != nil {
		return nil, err
	}
	match := pattern.FindStringSubmatch(result)
	if match == nil {
		return nil, nil
	}

	parseBound := func(s string) (*float64, error) {
		if s == "*" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse range bound %q: %w", s, err)
		}
		return &v, nil
	}
	min, err := parseBound(match[1])
	if err != nil {
		return nil, err
	}
	max, err := parseBound(match[2])
	if err != nil {
		return nil, err
	}

	settings := &RangeSettings{
		Setting:  Range{Min: min, Max: max},
		Reversed: match[3] != "no",
	}

	gp := gpvalAxis(axis, system)
	if v, ok, err := p.getVarFloat(ctx, "GPVAL_"+gp+"_MIN"); err != nil {
		return nil, err
	} else if ok {
		settings.Current.Min = &v
	}
	if v, ok, err := p.getVarFloat(ctx, "GPVAL_"+gp+"_MAX"); err != nil {
		return nil, err
	} else if ok {
		settings.Current.Max = &v
	}
	return settings, nil
}

// SetRange configures an axis range. Nil bounds autoscale. The reverse and
// writeback flags are left untouched when nil.
func (p *Plot) SetRange(ctx context.Context, axis string, system int, r Range, reverse, writeback *bool) error {
	bound := func(b *float64) string {
		if b == nil {
			return "*"
		}
		return fmt.Sprintf("%e", *b)
	}
	parts := []string{
		"set", rangeName(axis, system),
		fmt.Sprintf("[%s:%s]", bound(r.Min), bound(r.Max)),
	}
	if reverse != nil {
		if *reverse {
			parts = append(parts, "reverse")
		} else {
			parts = append(parts, "noreverse")
		}
	}
	if writeback != nil {
		if *writeback {
			parts = append(parts, "writeback")
		} else {
			parts = append(parts, "nowriteback")
		}
	}
	_, err := p.Exec(ctx, strings.Join(parts, " "), nil)
	return err
}

// scale converts one coordinate between the two axis systems using the
// ranges of the last drawn plot. ok is false when either range is unknown.
func (p *Plot) scale(ctx context.Context, coord float64, axis string, fromSystem int) (float64, bool, error) {
	toSystem := 3 - fromSystem
	var bounds [4]float64
	names := []string{
		"GPVAL_" + gpvalAxis(axis, fromSystem) + "_MIN",
		"GPVAL_" + gpvalAxis(axis, fromSystem) + "_MAX",
		"GPVAL_" + gpvalAxis(axis, toSystem) + "_MIN",
		"GPVAL_" + gpvalAxis(axis, toSystem) + "_MAX",
	}
	for i, name := range names {
		v, ok, err := p.getVarFloat(ctx, name)
		if err != nil || !ok {
			return 0, false, err
		}
		bounds[i] = v
	}
	fromMin, fromMax, toMin, toMax := bounds[0], bounds[1], bounds[2], bounds[3]
	if fromMax == fromMin {
		return 0, false, nil
	}
	return toMin + (toMax-toMin)*(coord-fromMin)/(fromMax-fromMin), true, nil
}

// FirstToSecond converts a point from the first to the second coordinate
// system, based on the last plot rather than the current settings.
func (p *Plot) FirstToSecond(ctx context.Context, x1, y1 float64) (x2, y2 float64, ok bool, err error) {
	x2, okX, err := p.scale(ctx, x1, "x", 1)
	if err != nil {
		return 0, 0, false, err
	}
	y2, okY, err := p.scale(ctx, y1, "y", 1)
	if err != nil {
		return 0, 0, false, err
	}
	return x2, y2, okX && okY, nil
}

// SecondToFirst converts a point from the second to the first coordinate
// system, based on the last plot rather than the current settings.
func (p *Plot) SecondToFirst(ctx context.Context, x2, y2 float64) (x1, y1 float64, ok bool, err error) {
	x1, okX, err := p.scale(ctx, x2, "x", 2)
	if err != nil {
		return 0, 0, false, err
	}
	y1, okY, err := p.scale(ctx, y2, "y", 2)
	if err != nil {
		return 0, 0, false, err
	}
	return x1, y1, okX && okY, nil
}
