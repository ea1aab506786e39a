// Package extract turns raw input lines into typed numeric samples.
//
// A Selector decides which parts of a line become samples: every numeric
// token (the default), a reordered subset of token positions, values
// adjacent to known unit tokens, or the capture groups of named regexes.
// Malformed tokens are skipped per-sample; a line with zero matches is a
// no-op, never an error.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rileyhilliard/pipeplot/internal/errors"
)

// Match is one extracted sample: the display slot it feeds, the canonical
// magnitude after unit normalization, and the unit it arrived with.
type Match struct {
	Series int
	Value  float64
	Unit   Unit
	Raw    string
}

// Mode identifies the active selector variant.
type Mode int

const (
	ModeAllTokens Mode = iota
	ModeIndices
	ModeUnits
	ModePatterns
)

// NamedPattern is a compiled registry regex. The first capture group is the
// value; an optional second group is the unit token.
type NamedPattern struct {
	Name  string
	Regex *regexp.Regexp
}

// tokenRe matches a numeric token with an optional trailing unit run
// (e.g. "42", "-3.5", "1500ms", "2.5GiB").
var tokenRe = regexp.MustCompile(`^([+-]?[0-9]+(?:\.[0-9]+)?)([A-Za-z]+)?$`)

// Selector is the resolved extraction strategy for a run. It is built once
// at startup and immutable afterwards.
type Selector struct {
	mode     Mode
	indices  []int // 0-based positions among numeric tokens
	patterns []NamedPattern
	units    []Unit
	unitRes  []*regexp.Regexp
}

// AllTokens selects every numeric token on a line, left to right.
func AllTokens() *Selector {
	return &Selector{mode: ModeAllTokens}
}

// Indices selects numeric tokens by 0-based position, emitted in the order
// the indices were requested. Duplicates are allowed so a value can feed
// more than one chart slot.
func Indices(indices []int) (*Selector, error) {
	if len(indices) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"Empty index list",
			"Pass at least one 0-based token position with -i.")
	}
	for _, idx := range indices {
		if idx < 0 {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Index %d is out of range", idx),
				"Indices are 0-based: the first numeric token on a line is index 0.")
		}
	}
	return &Selector{mode: ModeIndices, indices: indices}, nil
}

// Units selects the value adjacent to each unit token anywhere in the line.
// Unit i feeds series i.
func Units(tokens []string) (*Selector, error) {
	s := &Selector{mode: ModeUnits}
	for _, tok := range tokens {
		u, err := ParseUnit(tok)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Unknown unit %q", tok),
				"Recognized units: ms, s, b, kb, mb, gb, kib, mib, gib.")
		}
		s.units = append(s.units, u)
		s.unitRes = append(s.unitRes,
			regexp.MustCompile(`(?i)\b([0-9]+(?:\.[0-9]+)?)\s*`+regexp.QuoteMeta(u.Token)+`\b`))
	}
	return s, nil
}

// Patterns selects values via named regexes evaluated in registration order,
// each contributing one series.
func Patterns(patterns []NamedPattern) *Selector {
	return &Selector{mode: ModePatterns, patterns: patterns}
}

// Mode returns the active selector variant.
func (s *Selector) Mode() Mode { return s.mode }

// SeriesCount returns the fixed number of series slots for selectors that
// define one, or 0 when series are discovered from the input.
func (s *Selector) SeriesCount() int {
	switch s.mode {
	case ModeIndices:
		return len(s.indices)
	case ModeUnits:
		return len(s.units)
	case ModePatterns:
		return len(s.patterns)
	default:
		return 0
	}
}

// Extract applies the selector to one raw line. Malformed or
// unknown-unit tokens are dropped; the rest of the line still yields
// matches. An empty result is a no-op for the caller.
func (s *Selector) Extract(line string) []Match {
	switch s.mode {
	case ModeIndices:
		return s.extractIndices(line)
	case ModeUnits:
		return s.extractUnits(line)
	case ModePatterns:
		return s.extractPatterns(line)
	default:
		return s.extractAll(line)
	}
}

// parseToken splits a token into value and unit. Returns false for
// non-numeric tokens and for tokens with an unrecognized unit run.
func parseToken(tok string) (float64, Unit, bool) {
	m := tokenRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, None, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, None, false
	}
	u, err := ParseUnit(m[2])
	if err != nil {
		return 0, None, false
	}
	return v, u, true
}

// numericTokens parses every whitespace-separated numeric token on the line.
func numericTokens(line string) []Match {
	var out []Match
	for _, tok := range strings.Fields(line) {
		v, u, ok := parseToken(tok)
		if !ok {
			continue
		}
		out = append(out, Match{
			Series: len(out),
			Value:  Normalize(v, u),
			Unit:   u,
			Raw:    tok,
		})
	}
	return out
}

func (s *Selector) extractAll(line string) []Match {
	return numericTokens(line)
}

func (s *Selector) extractIndices(line string) []Match {
	values := numericTokens(line)
	var out []Match
	for slot, idx := range s.indices {
		if idx >= len(values) {
			continue
		}
		m := values[idx]
		m.Series = slot
		out = append(out, m)
	}
	return out
}

func (s *Selector) extractUnits(line string) []Match {
	var out []Match
	for slot, re := range s.unitRes {
		c := re.FindStringSubmatch(line)
		if c == nil {
			continue
		}
		v, err := strconv.ParseFloat(c[1], 64)
		if err != nil {
			continue
		}
		u := s.units[slot]
		out = append(out, Match{
			Series: slot,
			Value:  Normalize(v, u),
			Unit:   u,
			Raw:    c[0],
		})
	}
	return out
}

func (s *Selector) extractPatterns(line string) []Match {
	var out []Match
	for slot, p := range s.patterns {
		c := p.Regex.FindStringSubmatch(line)
		if len(c) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(c[1], 64)
		if err != nil {
			continue
		}
		u := None
		if len(c) > 2 && c[2] != "" {
			parsed, err := ParseUnit(c[2])
			if err != nil {
				continue
			}
			u = parsed
		}
		out = append(out, Match{
			Series: slot,
			Value:  Normalize(v, u),
			Unit:   u,
			Raw:    c[0],
		})
	}
	return out
}
