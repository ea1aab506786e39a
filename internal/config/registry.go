// Package config manages the persisted named-regex registry used by the
// add/remove/list subcommands and the -r/--regexes flag.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pipeplot/internal/errors"
	"github.com/rileyhilliard/pipeplot/internal/extract"
)

const (
	// ConfigDirName is the directory under the user config dir.
	ConfigDirName = "pipeplot"
	// ConfigFileName is the registry file name.
	ConfigFileName = "config.yaml"
)

// Pattern is one persisted named regex. The first capture group of the
// regex is the extracted value; an optional second group is the unit.
type Pattern struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Regex string `mapstructure:"regex" yaml:"regex"`
}

// Registry is the full persisted pattern set.
type Registry struct {
	Patterns []Pattern `mapstructure:"patterns" yaml:"patterns"`

	path string
}

// DefaultPath returns the registry location, e.g.
// ~/.config/pipeplot/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine the user config directory",
			"Set XDG_CONFIG_HOME or HOME and try again.")
	}
	return filepath.Join(dir, ConfigDirName, ConfigFileName), nil
}

// Load reads the registry from the given path, or from the default path
// when path is empty. A missing file yields an empty registry; the file is
// created on first Save.
func Load(path string) (*Registry, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	reg := &Registry{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return reg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read the pattern registry",
			fmt.Sprintf("Check that %s is valid YAML.", path))
	}
	if err := v.Unmarshal(reg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to parse the pattern registry",
			fmt.Sprintf("Check the structure of %s.", path))
	}
	reg.path = path
	return reg, nil
}

// Save writes the registry back to its file, creating parent directories
// as needed.
func (r *Registry) Save() error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to encode the pattern registry", "")
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create the config directory",
			"Check directory permissions.")
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write the pattern registry",
			"Check file permissions.")
	}
	return nil
}

// Path returns the file the registry is bound to.
func (r *Registry) Path() string { return r.path }

// Add validates and appends a named pattern. The regex must compile and
// carry at least one capture group for the value.
func (r *Registry) Add(name, pattern string) error {
	if name == "" {
		return errors.New(errors.ErrPattern,
			"Pattern name cannot be empty",
			"Give the regex a name with -n.")
	}
	for _, p := range r.Patterns {
		if p.Name == name {
			return errors.New(errors.ErrPattern,
				fmt.Sprintf("A pattern named %q already exists", name),
				fmt.Sprintf("Remove it first with 'pipeplot remove -n %s'.", name))
		}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrPattern,
			fmt.Sprintf("%q is not a valid regular expression", pattern),
			"Use Go (RE2) regex syntax.")
	}
	if re.NumSubexp() < 1 {
		return errors.New(errors.ErrPattern,
			"The regex has no capture group",
			"Wrap the value portion in parentheses, e.g. 'time=([0-9.]+)'.")
	}
	r.Patterns = append(r.Patterns, Pattern{Name: name, Regex: pattern})
	return nil
}

// Remove deletes the pattern with the given name.
func (r *Registry) Remove(name string) error {
	for i, p := range r.Patterns {
		if p.Name == name {
			r.Patterns = append(r.Patterns[:i], r.Patterns[i+1:]...)
			return nil
		}
	}
	return errors.New(errors.ErrPattern,
		fmt.Sprintf("No pattern named %q", name),
		"Run 'pipeplot list' to see the registered patterns.")
}

// Lookup returns the pattern with the given name.
func (r *Registry) Lookup(name string) (Pattern, bool) {
	for _, p := range r.Patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Resolve compiles the named patterns in the requested order for use as an
// extraction selector.
func (r *Registry) Resolve(names []string) ([]extract.NamedPattern, error) {
	resolved := make([]extract.NamedPattern, 0, len(names))
	for _, name := range names {
		p, ok := r.Lookup(name)
		if !ok {
			return nil, errors.New(errors.ErrPattern,
				fmt.Sprintf("No pattern named %q", name),
				"Run 'pipeplot list' to see the registered patterns, or add one with 'pipeplot add'.")
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrPattern,
				fmt.Sprintf("Stored pattern %q no longer compiles", name),
				"Remove and re-add it with a valid regex.")
		}
		resolved = append(resolved, extract.NamedPattern{Name: p.Name, Regex: re})
	}
	return resolved, nil
}
