package extract

import (
	"math"
	"strings"
)

// Rejection reasons recorded in the dirty-data log.
const (
	ReasonStandardNumber        = "standard_number"
	ReasonDensityOutOfRange     = "density_out_of_range"
	ReasonMeltIndexOutOfRange   = "melt_index_out_of_range"
	ReasonElongationOutOfRange  = "elongation_out_of_range"
	ReasonTemperatureOutOfRange = "temperature_out_of_range"
)

// standardNumbers are test-method citation codes ("ASTM D790", "ISO 1183")
// that the extractor can mistake for measurements.
var standardNumbers = map[int64]struct{}{
	1183: {}, 1133: {}, 527: {}, 178: {}, 306: {}, 868: {},
	790: {}, 792: {}, 1238: {}, 1505: {}, 1003: {}, 2457: {},
}

func isStandardNumber(v float64) bool {
	if v != math.Trunc(v) {
		return false
	}
	_, ok := standardNumbers[int64(v)]
	return ok
}

// Validate applies the per-property plausibility ranges. It returns false and
// a reason code when the value cannot be a real measurement for the key.
func Validate(key string, value float64) (bool, string) {
	if isStandardNumber(value) {
		return false, ReasonStandardNumber
	}

	switch key {
	case "density":
		if value > 2.0 || value < 0.8 {
			return false, ReasonDensityOutOfRange
		}
	case "melt_index":
		if value > 300 {
			return false, ReasonMeltIndexOutOfRange
		}
	case "elongation":
		if value > 2000 {
			return false, ReasonElongationOutOfRange
		}
	default:
		if strings.Contains(key, "temperature") && (value > 500 || value < 0) {
			return false, ReasonTemperatureOutOfRange
		}
	}

	return true, ""
}

// DirtyEntry records a value that extracted and mapped successfully but
// failed plausibility validation.
type DirtyEntry struct {
	SourceFile string  `json:"source_file"`
	Field      string  `json:"field"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Reason     string  `json:"reason"`
}

// DirtyLog is the typed audit sink the validator writes rejected values to.
// It is a first-class pipeline output, kept separate from the record stream
// so tests and offline audits can assert on its contents directly.
type DirtyLog struct {
	entries []DirtyEntry
}

// NewDirtyLog creates an empty dirty-data log.
func NewDirtyLog() *DirtyLog {
	return &DirtyLog{}
}

// Append records one rejected value.
func (l *DirtyLog) Append(e DirtyEntry) {
	l.entries = append(l.entries, e)
}

// Entries returns the recorded entries in append order.
func (l *DirtyLog) Entries() []DirtyEntry {
	return l.entries
}

// Len returns the number of recorded entries.
func (l *DirtyLog) Len() int {
	return len(l.entries)
}
