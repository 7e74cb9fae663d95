package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyRecord_Flatten(t *testing.T) {
	t.Run("sparse record becomes skip record", func(t *testing.T) {
		rec := NewPropertyRecord("Grade X", SourceHTML, "x.html")
		rec.Set("density", Measurement{Value: 0.941, Unit: "g/cm³"})

		flat := rec.Flatten()
		assert.True(t, flat.Skipped)
		assert.Equal(t, SkipInsufficientProperties, flat.SkippedReason)
	})

	t.Run("populated record keeps properties", func(t *testing.T) {
		rec := NewPropertyRecord("Grade X", SourcePDF, "x.pdf")
		rec.Vendor = VendorShell
		rec.Set("density", Measurement{Value: 0.941, Unit: "g/cm³"})
		rec.Set("melt_index", Measurement{Value: 0.5, Unit: "g/10min"})

		flat := rec.Flatten()
		assert.False(t, flat.Skipped)
		assert.Equal(t, []string{"density", "melt_index"}, flat.Keys())
		assert.Equal(t, VendorShell, flat.Vendor)

		m, ok := flat.Property("density")
		require.True(t, ok)
		assert.Equal(t, 0.941, m.Value)
	})
}

func TestFlatRecord_MarshalJSON(t *testing.T) {
	t.Run("pdf record field order", func(t *testing.T) {
		rec := NewPropertyRecord("Grade X", SourcePDF, "x.pdf")
		rec.Vendor = VendorShell
		rec.Set("density", Measurement{Value: 0.941, Unit: "g/cm³"})
		rec.Set("melt_index", Measurement{Value: 0.5, Unit: "g/10min"})

		data, err := json.Marshal(rec.Flatten())
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"material_name": "Grade X",
			"source_type": "pdf",
			"source_file": "x.pdf",
			"vendor": "Shell",
			"density": 0.941,
			"density_unit": "g/cm³",
			"melt_index": 0.5,
			"melt_index_unit": "g/10min"
		}`, string(data))

		// Order is part of the contract, not just content.
		assert.Equal(t, `{"material_name":"Grade X","source_type":"pdf","source_file":"x.pdf","vendor":"Shell","density":0.941,"density_unit":"g/cm³","melt_index":0.5,"melt_index_unit":"g/10min"}`, string(data))
	})

	t.Run("html record omits vendor", func(t *testing.T) {
		rec := NewPropertyRecord("Grade Y", SourceHTML, "y.html")
		rec.Set("density", Measurement{Value: 0.918, Unit: "g/cm³"})
		rec.Set("elongation", Measurement{Value: 600, Unit: "%"})

		data, err := json.Marshal(rec.Flatten())
		require.NoError(t, err)
		assert.NotContains(t, string(data), "vendor")
	})
}

func TestFlatRecord_RoundTrip(t *testing.T) {
	rec := NewPropertyRecord("Grade X", SourcePDF, "x.pdf")
	rec.Vendor = VendorShell
	rec.Set("melt_index", Measurement{Value: 0.5, Unit: "g/10min"})
	rec.Set("density", Measurement{Value: 0.941, Unit: "g/cm³"})

	data, err := json.Marshal(rec.Flatten())
	require.NoError(t, err)

	var decoded FlatRecord
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "Grade X", decoded.MaterialName)
	assert.Equal(t, SourcePDF, decoded.SourceType)
	assert.Equal(t, "x.pdf", decoded.SourceFile)
	assert.Equal(t, VendorShell, decoded.Vendor)
	assert.Equal(t, []string{"melt_index", "density"}, decoded.Keys())

	m, ok := decoded.Property("density")
	require.True(t, ok)
	assert.Equal(t, Measurement{Value: 0.941, Unit: "g/cm³"}, m)
}

func TestFlatRecord_Fields(t *testing.T) {
	rec := NewPropertyRecord("Grade X", SourcePDF, "x.pdf")
	rec.Set("density", Measurement{Value: 0.941, Unit: "g/cm³"})
	rec.Set("elongation", Measurement{Value: 600, Unit: "%"})

	fields := rec.Flatten().Fields()
	require.Len(t, fields, 5)
	assert.Equal(t, Field{Name: "material_name", Value: "Grade X"}, fields[0])
	assert.Equal(t, Field{Name: "density", Value: 0.941}, fields[1])
	assert.Equal(t, Field{Name: "density_unit", Value: "g/cm³"}, fields[2])
	assert.Equal(t, Field{Name: "elongation", Value: 600.0}, fields[3])
	assert.Equal(t, Field{Name: "elongation_unit", Value: "%"}, fields[4])
}

func TestRecordID_Deterministic(t *testing.T) {
	a := RecordID(SourcePDF, "x.pdf")
	b := RecordID(SourcePDF, "x.pdf")
	c := RecordID(SourceHTML, "x.pdf")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
