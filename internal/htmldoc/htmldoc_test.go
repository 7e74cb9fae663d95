package htmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/polymerlab/matsheet/internal/extract"
	"github.com/polymerlab/matsheet/internal/lexicon"
	"github.com/polymerlab/matsheet/internal/units"
)

func parse(t *testing.T, content string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(content))
	require.NoError(t, err)
	return doc
}

const datasheetPage = `<html>
<head><title>HDPE 5502 Datasheet</title></head>
<body>
<h1>HDPE 5502</h1>
<table>
<tr><td>Physical Properties</td><td>Metric</td><td>English</td><td>Comments</td></tr>
<tr><td>Density</td><td>0.941 - 0.945 g/cm³</td><td>0.0340 lb/in³</td><td>Average value: 0.943 g/cm³</td></tr>
<tr><td>Tensile Strength</td><td>31.0 MPa</td><td>4500 psi</td><td></td></tr>
<tr><td>Elongation at Break</td><td></td><td>600 %</td><td></td></tr>
<tr><td>Melt Index</td><td>0.35 g/10min</td></tr>
</table>
</body>
</html>`

func TestLines(t *testing.T) {
	lines := Lines(parse(t, datasheetPage))

	assert.Equal(t, []string{
		"Physical Properties Metric",
		"Density 0.943 g/cm³",
		"Tensile Strength 31.0 MPa",
		"Elongation at Break 600 %",
		"Melt Index 0.35 g/10min",
	}, lines)
}

func TestLines_TextFallback(t *testing.T) {
	page := `<html><body><p>Density 0.941 g/cm³</p><p>Melt Index 0.5 g/10min</p></body></html>`
	lines := Lines(parse(t, page))

	assert.Contains(t, lines, "Density 0.941 g/cm³")
	assert.Contains(t, lines, "Melt Index 0.5 g/10min")
}

func TestMaterialName(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			"h1 preferred",
			`<html><head><title>Other</title></head><body><h1>HDPE 5502</h1></body></html>`,
			"HDPE 5502",
		},
		{
			"matweb label id",
			`<html><body><span id="ctl00_ContentBody_lblMatName">LLDPE 2420D</span></body></html>`,
			"LLDPE 2420D",
		},
		{
			"subheader id",
			`<html><body><div id="ctl00_SubHeader">Exceed 1018</div></body></html>`,
			"Exceed 1018",
		},
		{
			"title fallback",
			`<html><head><title>Enable 2010 Overview</title></head><body></body></html>`,
			"Enable 2010 Overview",
		},
		{
			"file stem fallback",
			`<html><body></body></html>`,
			"grade-x",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MaterialName(parse(t, tc.content), "grade-x.html"))
		})
	}
}

func TestShouldSkip(t *testing.T) {
	overview := `<html><head><title>MatWeb - The Online Materials Information Resource</title></head><body></body></html>`
	assert.True(t, ShouldSkip(parse(t, overview), overview))

	blocked := `<html><body><a href="errorUser.aspx?code=1">retry</a></body></html>`
	assert.True(t, ShouldSkip(parse(t, blocked), blocked))

	normal := `<html><head><title>HDPE 5502</title></head><body></body></html>`
	assert.False(t, ShouldSkip(parse(t, normal), normal))
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(units.NewTable(), lexicon.New())

	t.Run("datasheet extracts record", func(t *testing.T) {
		rec, err := p.Process("hdpe5502.html", datasheetPage)
		require.NoError(t, err)

		assert.False(t, rec.Skipped)
		assert.Equal(t, "HDPE 5502", rec.MaterialName)
		assert.Equal(t, extract.SourceHTML, rec.SourceType)
		assert.Equal(t, "hdpe5502.html", rec.SourceFile)
		assert.Equal(t, []string{"density", "tensile_strength", "elongation", "melt_index"}, rec.Keys())

		density, ok := rec.Property("density")
		require.True(t, ok)
		assert.Equal(t, extract.Measurement{Value: 0.943, Unit: "g/cm³"}, density)

		tensile, ok := rec.Property("tensile_strength")
		require.True(t, ok)
		assert.Equal(t, extract.Measurement{Value: 31.0, Unit: "MPa"}, tensile)
	})

	t.Run("overview page skipped", func(t *testing.T) {
		page := `<html><head><title>MatWeb - The Online Materials Information Resource</title></head><body></body></html>`
		rec, err := p.Process("index.html", page)
		require.NoError(t, err)

		assert.True(t, rec.Skipped)
		assert.Equal(t, extract.SkipOverviewOrBlocked, rec.SkippedReason)
	})

	t.Run("sparse page skipped", func(t *testing.T) {
		page := `<html><head><title>HDPE</title></head><body><table>
			<tr><td>Density</td><td>0.941 g/cm³</td></tr>
		</table></body></html>`
		rec, err := p.Process("sparse.html", page)
		require.NoError(t, err)

		assert.True(t, rec.Skipped)
		assert.Equal(t, extract.SkipInsufficientProperties, rec.SkippedReason)
	})
}
