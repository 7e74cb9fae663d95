// Package units provides unit normalization, conversion and validity rules
// for material property measurements.
package units

import (
	"math"
	"strings"
)

// UnitUnknown marks a value extracted without a recognizable unit. Candidates
// carrying it are kept deliberately low-confidence and usually fail
// downstream validation.
const UnitUnknown = "unknown"

// Table normalizes raw unit spellings and decides which units are acceptable
// measurement candidates.
type Table struct {
	aliases   map[string]string
	valid     map[string]struct{}
	preferred map[string]struct{}
}

// NewTable creates a unit table with the canonical alias, validity and
// preference sets for polymer datasheets.
func NewTable() *Table {
	return &Table{
		aliases: map[string]string{
			"g/cm3":   "g/cm³",
			"g/cc":    "g/cm³",
			"g/cm^3":  "g/cm³",
			"g/10min": "g/10min",
			"dg/min":  "g/10min",
			"mpa":     "MPa",
			"psi":     "psi",
			"°c":      "°C",
			"℃":       "°C",
			"c":       "°C",
			"°f":      "°F",
			"f":       "°F",
			"%":       "%",
			"g":       "g",
			"n":       "N",
			"j":       "J",
		},
		valid: map[string]struct{}{
			"g/cm³":   {},
			"g/10min": {},
			"MPa":     {},
			"psi":     {},
			"°C":      {},
			"°F":      {},
			"%":       {},
			"g":       {},
			"N":       {},
			"J":       {},
		},
		preferred: map[string]struct{}{
			"g/cm³":   {},
			"g/10min": {},
			"MPa":     {},
			"°C":      {},
			"%":       {},
		},
	}
}

// Normalize converts a raw unit spelling to its canonical form. Unknown units
// pass through unchanged (apart from edge trimming) so the validity whitelist
// can reject them later without an error path.
func (t *Table) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	trimmed := strings.TrimFunc(raw, func(r rune) bool {
		return !isUnitRune(r)
	})
	key := strings.ReplaceAll(strings.ToLower(trimmed), " ", "")
	if canonical, ok := t.aliases[key]; ok {
		return canonical
	}
	return trimmed
}

// IsValid reports whether a normalized unit is an acceptable measurement unit.
func (t *Table) IsValid(unit string) bool {
	_, ok := t.valid[unit]
	return ok
}

// IsPreferred reports whether a normalized unit belongs to the metric set
// favored when several valid readings exist on one line.
func (t *Table) IsPreferred(unit string) bool {
	_, ok := t.preferred[unit]
	return ok
}

// Convert translates imperial readings into their metric equivalents.
// psi becomes MPa (factor 0.006895, 2 decimals) and Fahrenheit becomes
// Celsius (1 decimal). Everything else passes through unchanged.
func Convert(value float64, unit string) (float64, string) {
	if strings.EqualFold(unit, "psi") {
		return Round(value*0.006895, 2), "MPa"
	}
	switch unit {
	case "°F", "F", "°f":
		return Round((value-32)*5/9, 1), "°C"
	}
	return value, unit
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

func isUnitRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '%', r == '°', r == '℃', r == '³', r == '²':
		return true
	}
	return false
}
