package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pipeplot/internal/dash"
	"github.com/rileyhilliard/pipeplot/internal/errors"
	"github.com/rileyhilliard/pipeplot/internal/extract"
)

// resolveOptions validates the rate, layout, title, and unit flags and
// builds the immutable dashboard options.
func resolveOptions(cmd *cobra.Command) (dash.Options, error) {
	opts := dash.DefaultOptions()

	if tickRateFlag <= 0 {
		return opts, errors.New(errors.ErrConfig,
			fmt.Sprintf("--tick-rate must be positive, got %v", tickRateFlag),
			"Use the number of data commits per second, e.g. --tick-rate 4.")
	}
	if frameRateFlag <= 0 {
		return opts, errors.New(errors.ErrConfig,
			fmt.Sprintf("--frame-rate must be positive, got %v", frameRateFlag),
			"Use the number of rendered frames per second, e.g. -f 60.")
	}

	opts.TickInterval = time.Duration(float64(time.Second) / tickRateFlag)
	opts.FrameInterval = time.Duration(float64(time.Second) / frameRateFlag)

	// --update-frequency is the original's alternate spelling of the tick
	// cadence, in milliseconds. It wins when set explicitly.
	if cmd.Flags().Changed("update-frequency") {
		if updateFrequencyFlag <= 0 {
			return opts, errors.New(errors.ErrConfig,
				fmt.Sprintf("--update-frequency must be positive, got %d", updateFrequencyFlag),
				"Use the number of milliseconds between data commits, e.g. --update-frequency 1000.")
		}
		opts.TickInterval = time.Duration(updateFrequencyFlag) * time.Millisecond
	}

	layout, err := dash.ParseLayout(layoutFlag)
	if err != nil {
		return opts, err
	}
	opts.Layout = layout
	opts.Group = groupFlag
	opts.Titles = titlesFlag

	overrides, err := parseUnitOverrides(unitsFlag)
	if err != nil {
		return opts, err
	}
	opts.UnitOverrides = overrides

	if slots := selectorSlots(); slots > 0 {
		if len(titlesFlag) > slots {
			return opts, errors.New(errors.ErrConfig,
				fmt.Sprintf("%d titles given for %d series", len(titlesFlag), slots),
				"Pass at most one title per selected series.")
		}
		if len(unitsFlag) > slots {
			return opts, errors.New(errors.ErrConfig,
				fmt.Sprintf("%d units given for %d series", len(unitsFlag), slots),
				"Pass at most one unit per selected series.")
		}
	}

	return opts, nil
}

// selectorSlots returns the fixed series count implied by the selection
// flags, or 0 when series are discovered from the input.
func selectorSlots() int {
	switch {
	case len(regexesFlag) > 0:
		return len(regexesFlag)
	case len(indicesFlag) > 0:
		return len(indicesFlag)
	case len(unitsFlag) > 0:
		return len(unitsFlag)
	default:
		return 0
	}
}

// parseUnitOverrides resolves the -u flag values to display units.
func parseUnitOverrides(tokens []string) ([]extract.Unit, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	units := make([]extract.Unit, 0, len(tokens))
	for _, tok := range tokens {
		u, err := extract.ParseUnit(tok)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Unknown unit %q", tok),
				"Recognized units: ms, s, b, kb, mb, gb, kib, mib, gib.")
		}
		units = append(units, u)
	}
	return units, nil
}
