package pdfdoc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polymerlab/matsheet/internal/extract"
	"github.com/polymerlab/matsheet/internal/lexicon"
	"github.com/polymerlab/matsheet/internal/units"
)

type stubTextSource struct {
	pages []string
}

func (s stubTextSource) PageTexts(string) ([]string, error) {
	return s.pages, nil
}

type stubTableSource struct {
	grids [][][]string
}

func (s stubTableSource) Tables(string) ([][][]string, error) {
	return s.grids, nil
}

func newProcessor(text TextSource, grids TableSource, dirty *extract.DirtyLog) *Processor {
	return NewProcessor(text, grids, units.NewTable(), lexicon.New(), dirty)
}

func TestDetectVendor(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected extract.Vendor
	}{
		{"shell chinese", "中海壳牌石油化工有限公司 产品数据表", extract.VendorShell},
		{"shell cnooc", "CNOOC and Shell Petrochemicals", extract.VendorShell},
		{"exxon", "ExxonMobil Product Datasheet", extract.VendorExxonMobil},
		{"unknown", "Some Other Vendor", extract.VendorUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectVendor(tc.text))
		})
	}
}

func TestProcessor_Process_Shell(t *testing.T) {
	text := stubTextSource{pages: []string{
		"中海壳牌 产品数据表\n2420D\n密度 g/cm³ 0.921\n熔融指数 0.95\n维卡软化温度 96\n加工参数 螺杆转速 80",
	}}
	dirty := extract.NewDirtyLog()
	p := newProcessor(text, NoopTableSource{}, dirty)

	rec, err := p.Process("/data/2420d.pdf")
	require.NoError(t, err)

	assert.False(t, rec.Skipped)
	assert.Equal(t, "2420D", rec.MaterialName)
	assert.Equal(t, extract.SourcePDF, rec.SourceType)
	assert.Equal(t, "2420d.pdf", rec.SourceFile)
	assert.Equal(t, extract.VendorShell, rec.Vendor)

	density, ok := rec.Property("density")
	require.True(t, ok)
	assert.Equal(t, extract.Measurement{Value: 0.921, Unit: "g/cm³"}, density)

	// Trailing fallback fires for Shell sheets even without a unit.
	melt, ok := rec.Property("melt_index")
	require.True(t, ok)
	assert.Equal(t, extract.Measurement{Value: 0.95, Unit: units.UnitUnknown}, melt)

	vicat, ok := rec.Property("vicat_softening_temperature")
	require.True(t, ok)
	assert.Equal(t, 96.0, vicat.Value)

	assert.Zero(t, dirty.Len())
}

func TestProcessor_Process_ExxonName(t *testing.T) {
	text := stubTextSource{pages: []string{
		"ExxonMobil Product Datasheet\nExceed 1018HA\nDensity 0.918 g/cm³\nMelt Index 1.0 g/10min",
	}}
	p := newProcessor(text, NoopTableSource{}, nil)

	rec, err := p.Process("exceed.pdf")
	require.NoError(t, err)

	assert.Equal(t, "Exceed 1018HA", rec.MaterialName)
	assert.Equal(t, extract.VendorExxonMobil, rec.Vendor)
}

func TestProcessor_Process_NoTrailingFallbackForUnknownVendor(t *testing.T) {
	text := stubTextSource{pages: []string{
		"Generic datasheet\n密度 0.921 g/cm³\n熔融指数 0.95\n维卡软化温度 96",
	}}
	p := newProcessor(text, NoopTableSource{}, nil)

	rec, err := p.Process("generic.pdf")
	require.NoError(t, err)

	// Only the unit-bearing line extracts, so the record is too sparse.
	assert.True(t, rec.Skipped)
	assert.Equal(t, extract.SkipInsufficientProperties, rec.SkippedReason)
}

func TestProcessor_Process_TableLinesFirst(t *testing.T) {
	text := stubTextSource{pages: []string{"ExxonMobil\nExceed 1018\nElongation at Break 600 %"}}
	grids := stubTableSource{grids: [][][]string{{
		{"Property", "Metric", "English", "Comments"},
		{"Density", "0.918 g/cm³", "0.0332 lb/in³", ""},
		{"Melt Index", "1.0 g/10min", "", ""},
	}}}
	p := newProcessor(text, grids, nil)

	rec, err := p.Process("exceed.pdf")
	require.NoError(t, err)

	assert.False(t, rec.Skipped)
	assert.Equal(t, []string{"density", "melt_index", "elongation"}, rec.Keys())
}

func TestProcessor_Process_IgnoredLines(t *testing.T) {
	dirty := extract.NewDirtyLog()
	text := stubTextSource{pages: []string{
		"ExxonMobil\nDensity 0.918 g/cm³\nMelt Index 1.0 g/10min\nFilm Thickness 25 µm\nBlow-up ratio 2.5",
	}}
	p := newProcessor(text, NoopTableSource{}, dirty)

	rec, err := p.Process("film.pdf")
	require.NoError(t, err)

	assert.Equal(t, []string{"density", "melt_index"}, rec.Keys())
	assert.Zero(t, dirty.Len())
}

func TestProcessor_Process_DirtyLogging(t *testing.T) {
	dirty := extract.NewDirtyLog()
	text := stubTextSource{pages: []string{
		"ExxonMobil\nDensity 5.0 g/cm³\nMelt Index 1.0 g/10min",
	}}
	p := newProcessor(text, NoopTableSource{}, dirty)

	rec, err := p.Process("bad.pdf")
	require.NoError(t, err)

	assert.True(t, rec.Skipped)
	require.Equal(t, 1, dirty.Len())
	entry := dirty.Entries()[0]
	assert.Equal(t, "bad.pdf", entry.SourceFile)
	assert.Equal(t, "density", entry.Field)
	assert.Equal(t, extract.ReasonDensityOutOfRange, entry.Reason)
}

func TestSidecarTableSource(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "sheet.pdf")

	grids := [][][]string{{
		{"Property", "Unit", "Value"},
		{"密度", "g/cm³", "0.921"},
	}}
	data, err := json.Marshal(grids)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(pdfPath+".tables.json", data, 0o644))

	loaded, err := SidecarTableSource{}.Tables(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, grids, loaded)

	missing, err := SidecarTableSource{}.Tables(filepath.Join(dir, "other.pdf"))
	require.NoError(t, err)
	assert.Nil(t, missing)
}
