package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  float64
		valid  bool
		reason string
	}{
		{"density in range", "density", 0.941, true, ""},
		{"density lower bound", "density", 0.8, true, ""},
		{"density upper bound", "density", 2.0, true, ""},
		{"density too low", "density", 0.5, false, ReasonDensityOutOfRange},
		{"density too high", "density", 2.5, false, ReasonDensityOutOfRange},
		{"melt index in range", "melt_index", 0.5, true, ""},
		{"melt index boundary", "melt_index", 300, true, ""},
		{"melt index too high", "melt_index", 301, false, ReasonMeltIndexOutOfRange},
		{"elongation in range", "elongation", 600, true, ""},
		{"elongation too high", "elongation", 2500, false, ReasonElongationOutOfRange},
		{"temperature in range", "vicat_softening_temperature", 96, true, ""},
		{"temperature zero", "melt_peak_temperature", 0, true, ""},
		{"temperature too high", "melt_peak_temperature", 600, false, ReasonTemperatureOutOfRange},
		{"temperature negative", "vicat_softening_temperature", -10, false, ReasonTemperatureOutOfRange},
		{"standard number blacklisted", "density", 1183, false, ReasonStandardNumber},
		{"standard number on any key", "tensile_strength", 527, false, ReasonStandardNumber},
		{"near standard number passes", "elongation", 790.5, true, ""},
		{"unconstrained key", "flexural_modulus", 1200, true, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			valid, reason := Validate(tc.key, tc.value)
			assert.Equal(t, tc.valid, valid)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestDirtyLog(t *testing.T) {
	log := NewDirtyLog()
	assert.Zero(t, log.Len())

	log.Append(DirtyEntry{SourceFile: "a.pdf", Field: "density", Value: 5.0, Unit: "g/cm³", Reason: ReasonDensityOutOfRange})
	log.Append(DirtyEntry{SourceFile: "b.pdf", Field: "melt_index", Value: 1133, Unit: "g/10min", Reason: ReasonStandardNumber})

	assert.Equal(t, 2, log.Len())
	entries := log.Entries()
	assert.Equal(t, "a.pdf", entries[0].SourceFile)
	assert.Equal(t, ReasonStandardNumber, entries[1].Reason)
}
