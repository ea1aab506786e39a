package dash

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/pipeplot/internal/errors"
	"github.com/rileyhilliard/pipeplot/internal/extract"
)

// Layout controls how chart panels are arranged on screen.
type Layout int

const (
	LayoutAuto Layout = iota
	LayoutHorizontal
	LayoutVertical
)

// String returns the CLI spelling of the layout.
func (l Layout) String() string {
	switch l {
	case LayoutHorizontal:
		return "horizontal"
	case LayoutVertical:
		return "vertical"
	default:
		return "auto"
	}
}

// ParseLayout resolves a CLI layout string.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "auto":
		return LayoutAuto, nil
	case "horizontal":
		return LayoutHorizontal, nil
	case "vertical":
		return LayoutVertical, nil
	default:
		return LayoutAuto, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown layout %q", s),
			"Valid layouts: horizontal, vertical, auto.")
	}
}

// Options is the resolved dashboard configuration, built once from parsed
// flags and immutable during a run.
type Options struct {
	TickInterval  time.Duration // data commit cadence
	FrameInterval time.Duration // render cadence
	Titles        []string      // per-series display titles
	UnitOverrides []extract.Unit
	Group         bool // one panel per series instead of one shared panel
	Layout        Layout
}

// DefaultOptions returns the flag defaults: 4 ticks and 60 frames per second.
func DefaultOptions() Options {
	return Options{
		TickInterval:  250 * time.Millisecond,
		FrameInterval: time.Second / 60,
		Layout:        LayoutAuto,
	}
}

// title returns the display title for a series slot, falling back to the
// original's "Chart N" naming.
func (o Options) title(slot int) string {
	if slot < len(o.Titles) && o.Titles[slot] != "" {
		return o.Titles[slot]
	}
	return fmt.Sprintf("Chart %d", slot+1)
}

// displayUnit returns the unit override for a slot, or the observed unit.
func (o Options) displayUnit(slot int, observed extract.Unit) extract.Unit {
	if slot < len(o.UnitOverrides) && o.UnitOverrides[slot].Category != extract.CategoryNone {
		return o.UnitOverrides[slot]
	}
	return observed
}
