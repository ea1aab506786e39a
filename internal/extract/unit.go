package extract

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Category is the dimensional category a unit belongs to. Values within a
// category are converted to the category's canonical base unit before they
// are stored: milliseconds for time, bytes for data size.
type Category int

const (
	CategoryNone Category = iota
	CategoryTime
	CategorySize
)

// String returns a human-readable category label.
func (c Category) String() string {
	switch c {
	case CategoryTime:
		return "time"
	case CategorySize:
		return "size"
	default:
		return "none"
	}
}

// Unit describes a recognized unit token and its conversion factor to the
// category's canonical base unit.
type Unit struct {
	Token    string
	Category Category
	Factor   float64
}

// None is the zero unit for plain numeric values.
var None = Unit{Category: CategoryNone, Factor: 1}

// Recognized unit tokens, case-insensitive. Decimal size units are
// 1000-based, binary ones (the "i" infix) are 1024-based.
var unitTable = map[string]Unit{
	"ms":  {Token: "ms", Category: CategoryTime, Factor: 1},
	"s":   {Token: "s", Category: CategoryTime, Factor: 1000},
	"b":   {Token: "b", Category: CategorySize, Factor: 1},
	"kb":  {Token: "kb", Category: CategorySize, Factor: 1e3},
	"mb":  {Token: "mb", Category: CategorySize, Factor: 1e6},
	"gb":  {Token: "gb", Category: CategorySize, Factor: 1e9},
	"kib": {Token: "kib", Category: CategorySize, Factor: 1 << 10},
	"mib": {Token: "mib", Category: CategorySize, Factor: 1 << 20},
	"gib": {Token: "gib", Category: CategorySize, Factor: 1 << 30},
}

// ParseUnit resolves a unit token to its Unit. An empty token is the None
// unit. Unknown tokens return an error; callers drop the sample and move on.
func ParseUnit(token string) (Unit, error) {
	if token == "" {
		return None, nil
	}
	u, ok := unitTable[strings.ToLower(token)]
	if !ok {
		return None, fmt.Errorf("unrecognized unit %q", token)
	}
	return u, nil
}

// Normalize converts a raw value with the given unit to the canonical
// magnitude for the unit's category. Unitless values pass through unchanged.
func Normalize(value float64, u Unit) float64 {
	return value * u.Factor
}

// CanonicalSuffix returns the display suffix for the category's base unit.
func CanonicalSuffix(c Category) string {
	switch c {
	case CategoryTime:
		return "ms"
	case CategorySize:
		return "B"
	default:
		return ""
	}
}

// FormatValue formats a canonical magnitude for display. Size values get
// humanized byte formatting; time values show milliseconds.
func FormatValue(v float64, c Category) string {
	switch c {
	case CategorySize:
		if v < 0 {
			return fmt.Sprintf("%.2f %s", v, CanonicalSuffix(c))
		}
		return humanize.Bytes(uint64(v))
	case CategoryTime:
		return fmt.Sprintf("%.2f %s", v, CanonicalSuffix(c))
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
