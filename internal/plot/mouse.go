package plot

import (
	"context"
	"fmt"
	"strings"
)

// EventType classifies a mouse/keyboard event reported by gnuplot.
type EventType int

const (
	// EventClick is a mouse button press inside the plot window.
	EventClick EventType = iota
	// EventKey is a keyboard press inside the plot window.
	EventKey
	// EventAbnormal means the window was closed or the event variables
	// were unreadable.
	EventAbnormal
)

// Point is a coordinate pair in one axis system.
type Point struct {
	X float64
	Y float64
}

// Event is the decoded state of gnuplot's MOUSE_* variables after a
// `pause mouse' command returned.
type Event struct {
	Type   EventType
	Button int
	Coord1 Point // first axis system
	Coord2 Point // second axis system
	Shift  bool
	Ctrl   bool
	Alt    bool
	Char   string
	Key    int
}

const (
	keyEscape = 27
	keyReturn = 13
)

// coord returns the event coordinate in the requested axis system.
func (e *Event) coord(system int) Point {
	if system == 2 {
		return e.Coord2
	}
	return e.Coord1
}

// LastEvent decodes the most recent mouse/keyboard event from gnuplot's
// MOUSE_* variables.
func (p *Plot) LastEvent(ctx context.Context) (*Event, error) {
	ev := &Event{}

	button, haveButton, err := p.getVarInt(ctx, "MOUSE_BUTTON")
	if err != nil {
		return nil, err
	}
	ev.Button = button

	readCoord := func(xName, yName string) (Point, error) {
		x, _, err := p.getVarFloat(ctx, xName)
		if err != nil {
			return Point{}, err
		}
		y, _, err := p.getVarFloat(ctx, yName)
		if err != nil {
			return Point{}, err
		}
		return Point{X: x, Y: y}, nil
	}
	if ev.Coord1, err = readCoord("MOUSE_X", "MOUSE_Y"); err != nil {
		return nil, err
	}
	if ev.Coord2, err = readCoord("MOUSE_X2", "MOUSE_Y2"); err != nil {
		return nil, err
	}

	for _, mod := range []struct {
		name string
		dst  *bool
	}{
		{"MOUSE_SHIFT", &ev.Shift},
		{"MOUSE_CTRL", &ev.Ctrl},
		{"MOUSE_ALT", &ev.Alt},
	} {
		v, _, err := p.getVarInt(ctx, mod.name)
		if err != nil {
			return nil, err
		}
		*mod.dst = v != 0
	}

	if ev.Char, _, err = p.getVar(ctx, "MOUSE_CHAR"); err != nil {
		return nil, err
	}
	key, haveKey, err := p.getVarInt(ctx, "MOUSE_KEY")
	if err != nil {
		return nil, err
	}
	if !haveKey {
		key = -1
	}
	ev.Key = key

	switch {
	case !haveButton || button == -1:
		if key == -1 {
			ev.Type = EventAbnormal
		} else {
			ev.Type = EventKey
		}
	default:
		ev.Type = EventClick
	}
	return ev, nil
}

// WaitEvent blocks on `pause mouse any' and decodes the resulting event.
// When a callback is given, the wait repeats for as long as the callback
// returns true; an abnormal event always ends the wait. The last event is
// returned.
func (p *Plot) WaitEvent(ctx context.Context, callback func(*Event) bool) (*Event, error) {
	var last *Event
	err := p.withoutRefresh(func() error {
		for {
			if _, err := p.sess.Pause(ctx, "mouse", "any"); err != nil {
				return err
			}
			ev, err := p.LastEvent(ctx)
			if err != nil {
				return err
			}
			last = ev
			if ev.Type == EventAbnormal {
				return nil
			}
			if callback == nil || !callback(ev) {
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return last, nil
}

// LineSegment lets the user pick two points with left clicks, showing a
// ruler with distance feedback after the first. Esc undoes the first click
// or cancels. The result is nil when cancelled.
func (p *Plot) LineSegment(ctx context.Context, system int) ([]Point, error) {
	var points []Point
	var cbErr error
	err := p.withoutRefresh(func() error {
		_, err := p.WaitEvent(ctx, func(ev *Event) bool {
			switch {
			case ev.Type == EventClick && ev.Button == 1:
				points = append(points, ev.coord(system))
				if len(points) == 1 {
					_, cbErr = p.sess.Exec(ctx, fmt.Sprintf(
						"set mouse ruler at %f,%f polardistance", ev.Coord1.X, ev.Coord1.Y), nil)
					return cbErr == nil
				}
				return false
			case ev.Type == EventKey && ev.Key == keyEscape:
				if len(points) == 0 {
					return false
				}
				points = points[:len(points)-1]
				_, cbErr = p.sess.Exec(ctx, "set mouse noruler", nil)
				return cbErr == nil
			}
			return true
		})
		if err != nil {
			return err
		}
		if cbErr != nil {
			return cbErr
		}
		_, err = p.sess.Exec(ctx, "set mouse noruler nopolardistance", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, nil
	}
	return points, nil
}

// Polyline lets the user click a sequence of vertices. A right click or
// Return finishes, Esc undoes the last vertex (or cancels when there is
// none). onVertex, when given, observes every change to the vertex list.
// The result is nil when cancelled.
func (p *Plot) Polyline(ctx context.Context, system int, onVertex func([]Point)) ([]Point, error) {
	var points []Point
	cancelled := false
	var cbErr error

	err := p.withoutRefresh(func() error {
		last, err := p.WaitEvent(ctx, func(ev *Event) bool {
			switch {
			case ev.Type == EventClick:
				points = append(points, ev.coord(system))
				_, cbErr = p.sess.Exec(ctx, fmt.Sprintf(
					"set mouse ruler at %f,%f polardistance", ev.Coord1.X, ev.Coord1.Y), nil)
				if cbErr != nil {
					return false
				}
				if onVertex != nil {
					onVertex(points)
				}
				return ev.Button != 3
			case ev.Type == EventKey && ev.Key == keyEscape:
				if len(points) == 0 {
					cancelled = true
					return false
				}
				points = points[:len(points)-1]
				if onVertex != nil {
					onVertex(points)
				}
				if len(points) == 0 {
					_, cbErr = p.sess.Exec(ctx, "set mouse noruler", nil)
					return cbErr == nil
				}
				anchor := points[len(points)-1]
				if system == 2 {
					x1, y1, ok, err := p.SecondToFirst(ctx, anchor.X, anchor.Y)
					if err != nil {
						cbErr = err
						return false
					}
					if ok {
						anchor = Point{X: x1, Y: y1}
					}
				}
				_, cbErr = p.sess.Exec(ctx, fmt.Sprintf("set mouse ruler at %f,%f", anchor.X, anchor.Y), nil)
				return cbErr == nil
			case ev.Type == EventKey && ev.Key == keyReturn:
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		if cbErr != nil {
			return cbErr
		}
		if last != nil && last.Type == EventAbnormal {
			cancelled = true
		}
		_, err = p.sess.Exec(ctx, "set mouse noruler nopolardistance", nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, nil
	}
	return points, nil
}

// PolylineOptions configures InputPolyline.
type PolylineOptions struct {
	// System selects the axis system the vertices are captured in (1 or 2).
	System int
	// With is the style of the live overlay, default "lines".
	With string
	// LeavePolyline keeps the drawn polyline as a plot item afterwards.
	LeavePolyline bool
	// ClosePolygon connects the last vertex back to the first in the kept
	// item.
	ClosePolygon bool
}

// InputPolyline captures a polyline while showing it live as a plot item.
// Axis ranges are frozen during the capture so the view does not jump as
// items change; they are restored unless the polyline is kept.
func (p *Plot) InputPolyline(ctx context.Context, opts PolylineOptions) ([]Point, error) {
	system := opts.System
	if system == 0 {
		system = 1
	}
	style := opts.With
	if style == "" {
		style = "lines"
	}

	var vertices []Point
	err := p.withoutRefresh(func() error {
		xr, err := p.ShowRange(ctx, "x", system)
		if err != nil {
			return err
		}
		yr, err := p.ShowRange(ctx, "y", system)
		if err != nil {
			return err
		}
		if xr == nil || yr == nil {
			return fmt.Errorf("no current axis ranges; draw a plot before capturing a polyline")
		}
		if err := p.SetRange(ctx, "x", system, xr.Current, nil, nil); err != nil {
			return err
		}
		if err := p.SetRange(ctx, "y", system, yr.Current, nil, nil); err != nil {
			return err
		}

		overlayOptions := fmt.Sprintf("axes x%dy%d notitle with %s", system, system, style)
		showingOverlay := false

		overlayFor := func(points []Point) *Item {
			if len(points) == 0 {
				return nil
			}
			rows := make([]string, len(points))
			for i, pt := range points {
				rows[i] = fmt.Sprintf("%e %e", pt.X, pt.Y)
			}
			item := DataItem([]byte(strings.Join(rows, "\n")+"\n"), overlayOptions)
			return &item
		}

		onVertex := func(points []Point) {
			changed := false
			if showingOverlay {
				p.items = p.items[:len(p.items)-1]
				showingOverlay = false
				changed = true
			}
			if overlay := overlayFor(points); overlay != nil {
				p.items = append(p.items, *overlay)
				showingOverlay = true
				changed = true
			}
			if changed {
				p.Refresh(ctx)
			}
		}

		vertices, err = p.Polyline(ctx, system, onVertex)
		if err != nil {
			return err
		}

		changed := false
		if showingOverlay && (opts.ClosePolygon || !opts.LeavePolyline) {
			p.items = p.items[:len(p.items)-1]
			showingOverlay = false
			changed = true
		}
		if opts.LeavePolyline && opts.ClosePolygon && len(vertices) > 0 {
			display := vertices
			if len(display) > 1 {
				display = append(append([]Point{}, display...), display[0])
			}
			if overlay := overlayFor(display); overlay != nil {
				p.items = append(p.items, *overlay)
				changed = true
			}
		}
		if !opts.LeavePolyline {
			rev := xr.Reversed
			if err := p.SetRange(ctx, "x", system, xr.Setting, &rev, nil); err != nil {
				return err
			}
			rev = yr.Reversed
			if err := p.SetRange(ctx, "y", system, yr.Setting, &rev, nil); err != nil {
				return err
			}
			changed = true
		}
		if changed {
			return p.Refresh(ctx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vertices, nil
}
