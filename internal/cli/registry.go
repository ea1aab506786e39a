package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/rileyhilliard/pipeplot/internal/config"
	"github.com/rileyhilliard/pipeplot/internal/errors"
	"github.com/rileyhilliard/pipeplot/internal/logger"
)

// addCommand registers a named regex, prompting interactively when the
// flags were omitted.
func addCommand(name, regex string) error {
	log := logger.NewEnvLogger("[registry]")

	reg, err := config.Load("")
	if err != nil {
		return err
	}
	log.Debug("loaded %d patterns from %s", len(reg.Patterns), reg.Path())

	if name == "" || regex == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Pattern name").
					Placeholder("latency").
					Value(&name),
				huh.NewInput().
					Title("Regular expression").
					Description("The first capture group is the plotted value; an optional second group is the unit.").
					Placeholder(`time=([0-9.]+) ?(ms)?`).
					Value(&regex),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrPattern,
				"Pattern entry cancelled",
				"Pass -n and -r to add a pattern non-interactively.")
		}
	}

	if err := reg.Add(name, regex); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}
	log.Debug("saved pattern %q to %s", name, reg.Path())

	fmt.Printf("Added pattern %q\n", name)
	return nil
}

// removeCommand deletes a named regex from the registry.
func removeCommand(name string) error {
	if name == "" {
		return errors.New(errors.ErrPattern,
			"No pattern name given",
			"Name the pattern to remove with -n.")
	}

	log := logger.NewEnvLogger("[registry]")

	reg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := reg.Remove(name); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}
	log.Debug("removed pattern %q from %s", name, reg.Path())

	fmt.Printf("Removed pattern %q\n", name)
	return nil
}

// listCommand prints the registered patterns.
func listCommand() error {
	log := logger.NewEnvLogger("[registry]")

	reg, err := config.Load("")
	if err != nil {
		return err
	}
	log.Debug("loaded %d patterns from %s", len(reg.Patterns), reg.Path())

	if len(reg.Patterns) == 0 {
		fmt.Println("No patterns registered. Add one with 'pipeplot add'.")
		return nil
	}

	width := 0
	for _, p := range reg.Patterns {
		if len(p.Name) > width {
			width = len(p.Name)
		}
	}
	for _, p := range reg.Patterns {
		fmt.Printf("%-*s  %s\n", width, p.Name, p.Regex)
	}
	return nil
}
