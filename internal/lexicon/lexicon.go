// Package lexicon maps vendor-specific property labels, Chinese and English,
// onto canonical property keys.
package lexicon

import (
	"sort"
	"strings"
)

// Canonical property keys.
const (
	KeyDensity             = "density"
	KeyMeltIndex           = "melt_index"
	KeyMeltPeakTemperature = "melt_peak_temperature"
	KeyVicatSoftening      = "vicat_softening_temperature"
	KeyTensileYield        = "tensile_strength_yield"
	KeyTensileStrength     = "tensile_strength"
	KeyElongation          = "elongation"
	KeyFlexuralModulus     = "flexural_modulus"
)

type entry struct {
	pattern string
	key     string
}

// Lexicon resolves noisy label text to canonical property keys. Entries are
// matched longest pattern first so a specific phrase is never shadowed by a
// shorter substring bound to a different key.
type Lexicon struct {
	entries []entry
}

// New creates a lexicon with the default label set for polymer datasheets.
func New() *Lexicon {
	patterns := map[string]string{
		"密度":             KeyDensity,
		"density":        KeyDensity,
		"比重":             KeyDensity,
		"specificgravity": KeyDensity,

		"熔融指数":          KeyMeltIndex,
		"meltindex":     KeyMeltIndex,
		"meltflowrate":  KeyMeltIndex,
		"meltflowindex": KeyMeltIndex,

		"熔融峰值温度":                 KeyMeltPeakTemperature,
		"melttemperature":        KeyMeltPeakTemperature,
		"peakmeltingtemperature": KeyMeltPeakTemperature,
		"熔点":                     KeyMeltPeakTemperature,
		"meltingpoint":           KeyMeltPeakTemperature,

		"维卡软化温度": KeyVicatSoftening,
		"vicat":  KeyVicatSoftening,

		"拉伸屈服强度":        KeyTensileYield,
		"yieldstrength": KeyTensileYield,

		"拉伸断裂强度":          KeyTensileStrength,
		"拉伸强度":            KeyTensileStrength,
		"tensilestrength": KeyTensileStrength,
		"tensilebreak":    KeyTensileStrength,

		"断裂伸长率":             KeyElongation,
		"elongation":        KeyElongation,
		"elongationatbreak": KeyElongation,

		"弯曲模量":            KeyFlexuralModulus,
		"flexuralmodulus": KeyFlexuralModulus,
		"secantmodulus":   KeyFlexuralModulus,
	}

	entries := make([]entry, 0, len(patterns))
	for p, k := range patterns {
		entries = append(entries, entry{pattern: p, key: k})
	}
	sort.Slice(entries, func(i, j int) bool {
		li, lj := len([]rune(entries[i].pattern)), len([]rune(entries[j].pattern))
		if li != lj {
			return li > lj
		}
		return entries[i].pattern < entries[j].pattern
	})

	return &Lexicon{entries: entries}
}

// Map resolves label text to a canonical key. The second return is false when
// no configured entry is a substring of the normalized label; callers drop
// such lines rather than erroring.
func (l *Lexicon) Map(label string) (string, bool) {
	norm := normalizeLabel(label)
	if norm == "" {
		return "", false
	}
	for _, e := range l.entries {
		if strings.Contains(norm, e.pattern) {
			return e.key, true
		}
	}
	return "", false
}

// normalizeLabel lowercases the label and strips whitespace, parentheses,
// slashes and hyphens so spelling variants collapse onto one form.
func normalizeLabel(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch r {
		case ' ', '\t', '\n', '\r', '(', ')', '（', '）', '/', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
