// Package pdfdoc processes vendor PDF datasheets into flat property records.
package pdfdoc

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/polymerlab/matsheet/internal/extract"
	"github.com/polymerlab/matsheet/internal/lexicon"
	"github.com/polymerlab/matsheet/internal/tables"
	"github.com/polymerlab/matsheet/internal/units"
)

// ignoreKeywords mark processing-parameter lines (extrusion settings, film
// geometry) whose numbers are not material properties.
var ignoreKeywords = []string{
	"blow-up",
	"die gap",
	"screw",
	"extruder",
	"ratio",
	"temp profile",
	"加工参数",
	"模头",
	"薄膜厚度",
	"film thickness",
	"typical value",
}

// shellGradeRe matches Shell grade names such as "2310TN" on their own line.
var shellGradeRe = regexp.MustCompile(`^\d{4}[A-Z]+`)

// Processor turns one PDF datasheet into a FlatRecord.
type Processor struct {
	text    TextSource
	grids   TableSource
	units   *units.Table
	lexicon *lexicon.Lexicon
	dirty   *extract.DirtyLog
}

// NewProcessor creates a PDF processor. The dirty log may be nil to discard
// validation rejections.
func NewProcessor(text TextSource, grids TableSource, t *units.Table, lex *lexicon.Lexicon, dirty *extract.DirtyLog) *Processor {
	return &Processor{text: text, grids: grids, units: t, lexicon: lex, dirty: dirty}
}

// Process extracts the property record for one PDF. Table-derived lines run
// before free-text lines so structured readings win ties. The trailing-value
// fallback is enabled only for the Shell layout, whose sheets list the value
// at the end of the line without a unit.
func (p *Processor) Process(path string) (*extract.FlatRecord, error) {
	fileName := filepath.Base(path)

	pages, err := p.text.PageTexts(path)
	if err != nil {
		return nil, err
	}
	fullText := strings.Join(pages, "\n")
	vendor := DetectVendor(fullText)

	textLines := splitLines(fullText)
	name := materialName(textLines, vendor, fileName)

	rec := extract.NewPropertyRecord(name, extract.SourcePDF, fileName)
	rec.Vendor = vendor

	assembler := extract.NewAssembler(p.units, p.lexicon, extract.AssemblerConfig{
		TrailingFallback: vendor == extract.VendorShell,
		Dirty:            p.dirty,
	})

	grids, err := p.grids.Tables(path)
	if err != nil {
		return nil, err
	}
	for _, grid := range grids {
		for _, line := range tables.Lines(grid) {
			if ignoredLine(line) {
				continue
			}
			assembler.ProcessLine(rec, line)
		}
	}
	for _, line := range textLines {
		if ignoredLine(line) {
			continue
		}
		assembler.ProcessLine(rec, line)
	}

	return rec.Flatten(), nil
}

// DetectVendor classifies the datasheet producer from the document text.
func DetectVendor(fullText string) extract.Vendor {
	switch {
	case strings.Contains(fullText, "中海壳牌"),
		strings.Contains(fullText, "CNOOC"),
		strings.Contains(fullText, "Shell"):
		return extract.VendorShell
	case strings.Contains(fullText, "ExxonMobil"):
		return extract.VendorExxonMobil
	}
	return extract.VendorUnknown
}

// materialName scans the first lines of the document for the product name.
// ExxonMobil sheets lead with an Enable/Exceed product line; Shell sheets
// print the bare grade code. Anything else falls back to the file stem.
func materialName(lines []string, vendor extract.Vendor, fileName string) string {
	limit := len(lines)
	if limit > 10 {
		limit = 10
	}
	for _, line := range lines[:limit] {
		if strings.Contains(line, "Enable") || strings.Contains(line, "Exceed") {
			return strings.TrimSpace(line)
		}
		if vendor == extract.VendorShell && shellGradeRe.MatchString(line) {
			return strings.TrimSpace(line)
		}
	}
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

func ignoredLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range ignoreKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
