package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/polymerlab/matsheet/internal/lexicon"
	"github.com/polymerlab/matsheet/internal/units"
)

// Assembler resolves candidate lines into validated record entries: it maps
// the label text to a canonical key, selects the best candidate, converts
// and validates it, and writes the result into the document's record.
type Assembler struct {
	units     *units.Table
	lex       *lexicon.Lexicon
	extractor *Extractor
	dirty     *DirtyLog
	trailing  bool
}

// AssemblerConfig controls per-document assembly behavior.
type AssemblerConfig struct {
	// TrailingFallback enables the trailing-value heuristic for lines that
	// yield no regular candidate. PDF processing gates this on the Shell
	// vendor layout; HTML processing enables it unconditionally.
	TrailingFallback bool
	// Dirty receives validation rejections when non-nil.
	Dirty *DirtyLog
}

// NewAssembler creates an assembler over the shared unit table and lexicon.
func NewAssembler(t *units.Table, lex *lexicon.Lexicon, cfg AssemblerConfig) *Assembler {
	return &Assembler{
		units:     t,
		lex:       lex,
		extractor: NewExtractor(t),
		dirty:     cfg.Dirty,
		trailing:  cfg.TrailingFallback,
	}
}

// ProcessLine runs one candidate line through extraction, mapping,
// conversion and validation, mutating rec on success. Lines that fail any
// stage are dropped; only validation failures reach the dirty log.
func (a *Assembler) ProcessLine(rec *PropertyRecord, line string) {
	clean := CleanNoise(line)

	candidates := a.extractor.Candidates(clean)
	if len(candidates) == 0 && a.trailing {
		if c, ok := a.extractor.TrailingCandidate(clean); ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return
	}

	// The text before the first extracted value is the label.
	label := labelBefore(clean, candidates[0].Value)
	key, ok := a.lex.Map(label)
	if !ok {
		return
	}

	best := pickCandidate(candidates, a.units)
	value, unit := units.Convert(best.Value, best.Unit)

	valid, reason := Validate(key, value)
	if !valid {
		if a.dirty != nil {
			a.dirty.Append(DirtyEntry{
				SourceFile: rec.SourceFile,
				Field:      key,
				Value:      value,
				Unit:       unit,
				Reason:     reason,
			})
		}
		return
	}

	storeMeasurement(rec, key, Measurement{Value: value, Unit: unit})
}

// pickCandidate is the selection policy: default to the first extracted
// candidate, but prefer the first one carrying a metric unit. First match
// wins; extraction order matters.
func pickCandidate(candidates []Candidate, t *units.Table) Candidate {
	best := candidates[0]
	for _, c := range candidates {
		if t.IsPreferred(c.Unit) {
			best = c
			break
		}
	}
	return best
}

// storeMeasurement is the write policy: tensile strength keeps the maximum
// validated value for the document (vendors report yield and break strength
// under ambiguous labels; the higher, typically break, value wins), every
// other key overwrites.
func storeMeasurement(rec *PropertyRecord, key string, m Measurement) {
	if key == lexicon.KeyTensileStrength {
		var current float64
		if existing, ok := rec.Get(key); ok {
			current = existing.Value
		}
		if m.Value > current {
			rec.Set(key, m)
		}
		return
	}
	rec.Set(key, m)
}

// labelBefore returns the text preceding the first occurrence of the value's
// rendered form, or the whole line when the rendering is not found.
func labelBefore(line string, value float64) string {
	rendered := formatValue(value)
	if idx := strings.Index(line, rendered); idx >= 0 {
		return line[:idx]
	}
	return line
}

// formatValue renders a number the way it appears in source text: integral
// values without a decimal point.
func formatValue(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
