// Package extract locates numeric value/unit candidates on reconstructed
// datasheet lines, validates them and assembles per-document property records.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/polymerlab/matsheet/internal/units"
)

// Candidate is a tentatively extracted (value, unit) pair, before label
// mapping and validation confirm it belongs to a property.
type Candidate struct {
	Value float64
	Unit  string
}

// noiseTerms are removed from a line before tokenization so standards-body
// names and table chrome cannot glue onto property labels.
var noiseTerms = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ExxonMobil`),
	regexp.MustCompile(`(?i)Method`),
	regexp.MustCompile(`(?i)ASTM`),
	regexp.MustCompile(`(?i)ISO`),
	regexp.MustCompile(`(?i)GB/T`),
	regexp.MustCompile(`(?i)IEC`),
	regexp.MustCompile(`(?i)\bMD\b`),
	regexp.MustCompile(`(?i)\bTD\b`),
	regexp.MustCompile(`(?i)Test`),
	regexp.MustCompile(`(?i)Values`),
	regexp.MustCompile(`(?i)English`),
	regexp.MustCompile(`(?i)\bSI\b`),
	regexp.MustCompile(`(?i)Typical`),
	regexp.MustCompile(`(?i)Properties`),
	regexp.MustCompile(`(?i)Note`),
	regexp.MustCompile(`(?i)Data`),
}

// CleanNoise strips known noise terms from a line.
func CleanNoise(line string) string {
	cleaned := line
	for _, re := range noiseTerms {
		cleaned = re.ReplaceAllString(cleaned, " ")
	}
	return strings.TrimSpace(cleaned)
}

// Extractor scans cleaned lines for numeric/unit candidate pairs.
type Extractor struct {
	units *units.Table
}

// NewExtractor creates an extractor backed by the given unit table.
func NewExtractor(t *units.Table) *Extractor {
	return &Extractor{units: t}
}

// Candidates returns every (value, unit) pair found on the line. For each
// numeric token both the following and the preceding token are tested as
// units, so "4500 psi" and "MPa 31.0" layouts both extract; a single token
// can contribute up to two candidates.
func (e *Extractor) Candidates(line string) []Candidate {
	var candidates []Candidate

	// Keep "%" tokenizable even when glued to its value.
	tokens := strings.Fields(strings.ReplaceAll(line, "%", " % "))

	for i, token := range tokens {
		val, ok := parseNumber(token)
		if !ok {
			continue
		}
		if i+1 < len(tokens) {
			if unit := e.units.Normalize(tokens[i+1]); e.units.IsValid(unit) {
				candidates = append(candidates, Candidate{Value: val, Unit: unit})
			}
		}
		if i-1 >= 0 {
			if unit := e.units.Normalize(tokens[i-1]); e.units.IsValid(unit) {
				candidates = append(candidates, Candidate{Value: val, Unit: unit})
			}
		}
	}

	return candidates
}

// TrailingCandidate applies the vendor-layout fallback: the line's last token
// is read as the value, the second-to-last as its unit. When no valid unit
// precedes the value and the value is not a known test-standard number, the
// candidate is emitted with UnitUnknown so property mapping still gets a
// chance to fire.
func (e *Extractor) TrailingCandidate(line string) (Candidate, bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Candidate{}, false
	}

	val, ok := parseNumber(tokens[len(tokens)-1])
	if !ok {
		return Candidate{}, false
	}

	if len(tokens) > 1 {
		if unit := e.units.Normalize(tokens[len(tokens)-2]); e.units.IsValid(unit) {
			return Candidate{Value: val, Unit: unit}, true
		}
	}

	if !isStandardNumber(val) {
		return Candidate{Value: val, Unit: units.UnitUnknown}, true
	}

	return Candidate{}, false
}

// parseNumber extracts a signed decimal from a token, tolerating glued
// punctuation such as "0.941," or "(23)".
func parseNumber(token string) (float64, bool) {
	var b strings.Builder
	for _, r := range token {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
