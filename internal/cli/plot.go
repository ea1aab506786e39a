package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/pipeplot/internal/config"
	"github.com/rileyhilliard/pipeplot/internal/dash"
	"github.com/rileyhilliard/pipeplot/internal/errors"
	"github.com/rileyhilliard/pipeplot/internal/extract"
	"github.com/rileyhilliard/pipeplot/internal/logger"
	"github.com/rileyhilliard/pipeplot/internal/series"
)

// plotCommand resolves the flag surface into a selector and options, then
// runs the dashboard until quit, end of input, or a fatal error.
func plotCommand(cmd *cobra.Command) error {
	// The dashboard reads samples from stdin; a TTY there means nothing
	// was piped in and the program would sit waiting forever.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New(errors.ErrConfig,
			"No input is being piped to stdin",
			"Pipe a command into pipeplot, e.g. 'ping example.com | pipeplot'.")
	}

	opts, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	sel, err := resolveSelector()
	if err != nil {
		return err
	}

	// Logs go to a file while the TUI owns the terminal. Logging is
	// best-effort; a read-only cache dir should not stop the dashboard.
	log, logErr := logger.NewFileLogger(logger.DefaultLogPath(), "[dash]")
	if logErr != nil {
		log = logger.Noop()
	}

	store := series.NewStore(series.DefaultCapacity)
	reader := dash.NewReader(os.Stdin, sel, log)
	model := dash.NewModel(store, reader, opts, log)

	// Alt screen and raw mode are restored by bubbletea on every exit
	// path, including panics and interrupt signals.
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerm,
			"Terminal initialization failed",
			"pipeplot needs an interactive terminal on stdout.")
	}

	if m, ok := final.(dash.Model); ok && m.Err() != nil {
		return errors.WrapWithCode(m.Err(), errors.ErrInput,
			"Reading from stdin failed", "")
	}
	return nil
}

// resolveSelector builds the extraction selector from the selection flags.
// Precedence follows the original: registered patterns, then indices, then
// unit-driven extraction, then all numeric tokens.
func resolveSelector() (*extract.Selector, error) {
	switch {
	case len(regexesFlag) > 0:
		reg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		patterns, err := reg.Resolve(regexesFlag)
		if err != nil {
			return nil, err
		}
		return extract.Patterns(patterns), nil

	case len(indicesFlag) > 0:
		return extract.Indices(indicesFlag)

	case len(unitsFlag) > 0:
		return extract.Units(unitsFlag)

	default:
		return extract.AllTokens(), nil
	}
}
