package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pipeplot/internal/dash"
	"github.com/rileyhilliard/pipeplot/internal/errors"
	"github.com/rileyhilliard/pipeplot/internal/extract"
)

// resetFlags restores the root command flag state between tests.
func resetFlags(t *testing.T) {
	t.Helper()
	tickRateFlag = 4.0
	frameRateFlag = 60.0
	titlesFlag = nil
	unitsFlag = nil
	indicesFlag = nil
	groupFlag = false
	updateFrequencyFlag = 0
	layoutFlag = "auto"
	regexesFlag = nil
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

func TestResolveOptionsDefaults(t *testing.T) {
	resetFlags(t)

	opts, err := resolveOptions(rootCmd)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, opts.TickInterval)
	assert.Equal(t, time.Second/60, opts.FrameInterval)
	assert.Equal(t, dash.LayoutAuto, opts.Layout)
	assert.False(t, opts.Group)
}

func TestResolveOptionsRejectsBadRates(t *testing.T) {
	resetFlags(t)
	tickRateFlag = 0

	_, err := resolveOptions(rootCmd)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	resetFlags(t)
	frameRateFlag = -1
	_, err = resolveOptions(rootCmd)
	assert.Error(t, err)
}

func TestResolveOptionsUpdateFrequencyOverridesTickRate(t *testing.T) {
	resetFlags(t)
	updateFrequencyFlag = 500
	require.NoError(t, rootCmd.Flags().Set("update-frequency", "500"))

	opts, err := resolveOptions(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, opts.TickInterval)
}

func TestResolveOptionsTooManyTitles(t *testing.T) {
	resetFlags(t)
	indicesFlag = []int{1, 2}
	titlesFlag = []string{"a", "b", "c"}

	_, err := resolveOptions(rootCmd)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestResolveOptionsTooManyUnits(t *testing.T) {
	resetFlags(t)
	indicesFlag = []int{1}
	unitsFlag = []string{"ms", "mb"}

	_, err := resolveOptions(rootCmd)
	assert.Error(t, err)
}

func TestResolveOptionsUnknownUnit(t *testing.T) {
	resetFlags(t)
	unitsFlag = []string{"fathoms"}

	_, err := resolveOptions(rootCmd)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestResolveOptionsUnknownLayout(t *testing.T) {
	resetFlags(t)
	layoutFlag = "spiral"

	_, err := resolveOptions(rootCmd)
	assert.Error(t, err)
}

func TestParseUnitOverrides(t *testing.T) {
	units, err := parseUnitOverrides([]string{"ms", "gib"})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, extract.CategoryTime, units[0].Category)
	assert.Equal(t, extract.CategorySize, units[1].Category)

	units, err = parseUnitOverrides(nil)
	require.NoError(t, err)
	assert.Nil(t, units)
}

func TestResolveSelectorPrecedence(t *testing.T) {
	resetFlags(t)

	// Default: all numeric tokens.
	sel, err := resolveSelector()
	require.NoError(t, err)
	assert.Equal(t, extract.ModeAllTokens, sel.Mode())

	// Indices win over units.
	indicesFlag = []int{2, 1}
	unitsFlag = []string{"ms"}
	sel, err = resolveSelector()
	require.NoError(t, err)
	assert.Equal(t, extract.ModeIndices, sel.Mode())

	// Units mode when only -u is given.
	indicesFlag = nil
	sel, err = resolveSelector()
	require.NoError(t, err)
	assert.Equal(t, extract.ModeUnits, sel.Mode())
}

func TestSelectorSlots(t *testing.T) {
	resetFlags(t)
	assert.Equal(t, 0, selectorSlots())

	indicesFlag = []int{1, 2, 3}
	assert.Equal(t, 3, selectorSlots())

	regexesFlag = []string{"latency"}
	assert.Equal(t, 1, selectorSlots(), "regexes take precedence")
}
