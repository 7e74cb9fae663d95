// Package htmldoc processes saved datasheet HTML pages into flat property
// records.
package htmldoc

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/polymerlab/matsheet/internal/extract"
	"github.com/polymerlab/matsheet/internal/lexicon"
	"github.com/polymerlab/matsheet/internal/tables"
	"github.com/polymerlab/matsheet/internal/units"
)

// overviewTitlePrefix marks a site landing or search page saved instead of a
// datasheet.
const overviewTitlePrefix = "MatWeb - The Online Materials Information Resource"

// blockedMarkers appear in pages the site served instead of content.
var blockedMarkers = []string{"errorUser.aspx", "msgid="}

// materialNameIDs are node ids known to carry the material name, tried in
// order after <h1>.
var materialNameIDs = []string{
	"ctl00_ContentBody_lblMatName",
	"ctl00_ContentBody_lnkMaterial",
	"ctl00_SubHeader",
}

// Processor turns one HTML page into a FlatRecord.
type Processor struct {
	assembler *extract.Assembler
}

// NewProcessor creates an HTML processor over the shared unit table and
// lexicon. HTML pages keep the trailing-value fallback unconditionally; the
// saved pages predate any vendor tagging.
func NewProcessor(t *units.Table, lex *lexicon.Lexicon) *Processor {
	return &Processor{
		assembler: extract.NewAssembler(t, lex, extract.AssemblerConfig{
			TrailingFallback: true,
		}),
	}
}

// Process parses the page and extracts its property record. Overview and
// blocked pages yield a skip record, not an error; errors are reserved for
// unparseable input.
func (p *Processor) Process(fileName, content string) (*extract.FlatRecord, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", fileName, err)
	}

	name := MaterialName(doc, fileName)

	if ShouldSkip(doc, content) {
		return extract.SkipRecord(name, extract.SourceHTML, fileName, extract.SkipOverviewOrBlocked), nil
	}

	rec := extract.NewPropertyRecord(name, extract.SourceHTML, fileName)
	for _, line := range Lines(doc) {
		p.assembler.ProcessLine(rec, line)
	}
	return rec.Flatten(), nil
}

// ShouldSkip reports whether the page is an overview or blocked page rather
// than a datasheet.
func ShouldSkip(doc *html.Node, raw string) bool {
	if strings.HasPrefix(strings.TrimSpace(title(doc)), overviewTitlePrefix) {
		return true
	}
	for _, marker := range blockedMarkers {
		if strings.Contains(raw, marker) {
			return true
		}
	}
	return false
}

// MaterialName resolves the material name through the page's known locations,
// falling back to the file stem when the page offers nothing usable.
func MaterialName(doc *html.Node, fileName string) string {
	if h1 := findElement(doc, "h1"); h1 != nil {
		if name := strings.TrimSpace(nodeText(h1)); name != "" {
			return name
		}
	}
	for _, id := range materialNameIDs {
		if n := findByID(doc, id); n != nil {
			if name := strings.TrimSpace(nodeText(n)); name != "" {
				return name
			}
		}
	}
	if t := strings.TrimSpace(title(doc)); t != "" {
		return t
	}
	stem := filepath.Base(fileName)
	return strings.TrimSuffix(stem, filepath.Ext(stem))
}

// Lines reconstructs candidate lines from the page's tables. Rows with a
// metric column prefer it, normalized against the trailing comment cell; rows
// with only an english reading use that. Pages without usable table rows fall
// back to the page's text lines.
func Lines(doc *html.Node) []string {
	var lines []string

	for _, table := range findElements(doc, "table") {
		for _, tr := range findElements(table, "tr") {
			cells := rowCells(tr)
			switch {
			case len(cells) >= 3:
				prop, metric, english := cells[0], cells[1], cells[2]
				comment := ""
				if len(cells) > 3 {
					comment = cells[3]
				}
				if metric != "" {
					lines = append(lines, prop+" "+tables.NormalizeMetricCell(metric, comment))
				} else if english != "" {
					lines = append(lines, prop+" "+english)
				}
			case len(cells) == 2:
				lines = append(lines, cells[0]+" "+cells[1])
			}
		}
	}

	if len(lines) == 0 {
		lines = textLines(doc)
	}

	return lines
}

// textLines flattens the page's text nodes into one line each, skipping
// script and style bodies.
func textLines(doc *html.Node) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				lines = append(lines, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return lines
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, tables.NormalizeCell(nodeText(c)))
		}
	}
	return cells
}

func title(doc *html.Node) string {
	if n := findElement(doc, "title"); n != nil {
		return nodeText(n)
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.Data == tag {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findElements(c, tag)...)
	}
	return out
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
