// Package cli defines the pipeplot command tree. The root command runs the
// dashboard; the add/remove/list subcommands manage the persisted
// named-regex registry.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	tickRateFlag        float64
	frameRateFlag       float64
	titlesFlag          []string
	unitsFlag           []string
	indicesFlag         []int
	groupFlag           bool
	updateFrequencyFlag int
	layoutFlag          string
	regexesFlag         []string
	addNameFlag         string
	addRegexFlag        string
	removeNameFlag      string
)

// rootCmd reads numeric lines from stdin and plots them live.
var rootCmd = &cobra.Command{
	Use:   "pipeplot",
	Short: "Plot numbers piped to stdin as live terminal charts",
	Long: `Pipe any command that prints numbers into pipeplot and watch them as
live, scrolling terminal charts. Every numeric token on a line becomes a
series by default; indices, units, or registered regexes narrow the
selection.

Examples:
  ping example.com | pipeplot -r latency
  vmstat 1 | pipeplot -i 4,5 -t "swap,free"
  while true; do free -m | grep Mem; sleep 1; done | pipeplot -i 3 -u mb`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return plotCommand(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// addCmd registers a new named regex in the registry.
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a named regex to the registry",
	Long: `Register a named regular expression for value extraction.

The first capture group of the regex is the plotted value; an optional
second group is the unit token. Registered patterns are selected at run
time with -r/--regexes.

Examples:
  pipeplot add -n latency -r 'time=([0-9.]+) ?(ms)?'
  pipeplot add            (prompts for name and regex)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return addCommand(addNameFlag, addRegexFlag)
	},
}

// removeCmd deletes a named regex from the registry.
var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a named regex from the registry",
	Long: `Remove a registered regular expression by name.

Examples:
  pipeplot remove -n latency`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeCommand(removeNameFlag)
	},
}

// listCmd prints all registered regexes.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered regexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand()
	},
}

func init() {
	rootCmd.Flags().Float64Var(&tickRateFlag, "tick-rate", 4.0, "data commits per second")
	rootCmd.Flags().Float64VarP(&frameRateFlag, "frame-rate", "f", 60.0, "rendered frames per second")
	rootCmd.Flags().StringSliceVarP(&titlesFlag, "titles", "t", nil, "per-series chart titles")
	rootCmd.Flags().StringSliceVarP(&unitsFlag, "units", "u", nil, "per-series units (ms, s, b, kb, mb, gb, kib, mib, gib)")
	rootCmd.Flags().IntSliceVarP(&indicesFlag, "indices", "i", nil, "0-based numeric token positions to plot, in display order")
	rootCmd.Flags().BoolVarP(&groupFlag, "group", "g", false, "one chart panel per series")
	rootCmd.Flags().Lookup("group").NoOptDefVal = "true"
	rootCmd.Flags().IntVar(&updateFrequencyFlag, "update-frequency", 0, "milliseconds between data commits (overrides --tick-rate)")
	rootCmd.Flags().StringVarP(&layoutFlag, "layout", "l", "auto", "panel layout: horizontal, vertical, or auto")
	rootCmd.Flags().StringSliceVarP(&regexesFlag, "regexes", "r", nil, "registered pattern names to extract with")

	addCmd.Flags().StringVarP(&addNameFlag, "name", "n", "", "name of the regex")
	addCmd.Flags().StringVarP(&addRegexFlag, "regex", "r", "", "the regex to add")
	removeCmd.Flags().StringVarP(&removeNameFlag, "name", "n", "", "name of the regex to remove")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
}

// SetVersionInfo sets the version string shown by --version.
// Called from main with ldflags-injected values.
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

// Execute runs the command tree. Fatal errors print to stderr and exit
// non-zero after the terminal has been restored by the TUI layer.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
