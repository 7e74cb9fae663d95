package pdfdoc

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"
)

// TextSource yields the plain text of each page of a PDF.
type TextSource interface {
	PageTexts(path string) ([]string, error)
}

// FitzTextSource extracts page text with MuPDF.
type FitzTextSource struct{}

// PageTexts opens the document and returns one string per page.
func (FitzTextSource) PageTexts(path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("extract text %s page %d: %w", path, i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// TableSource yields detected table grids for a PDF. Table detection itself
// is an external concern; grids arrive as rows of cells per table.
type TableSource interface {
	Tables(path string) ([][][]string, error)
}

// NoopTableSource reports no tables, leaving extraction to page text alone.
type NoopTableSource struct{}

// Tables always returns nil.
func (NoopTableSource) Tables(string) ([][][]string, error) { return nil, nil }

// SidecarTableSource replays pre-extracted table dumps stored next to each
// PDF as <path>.tables.json, a JSON array of tables, each a row-major array
// of cell strings. A missing sidecar means no tables, not an error.
type SidecarTableSource struct{}

// Tables loads the sidecar dump for path if one exists.
func (SidecarTableSource) Tables(path string) ([][][]string, error) {
	data, err := os.ReadFile(path + ".tables.json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read table sidecar for %s: %w", path, err)
	}

	var grids [][][]string
	if err := json.Unmarshal(data, &grids); err != nil {
		return nil, fmt.Errorf("decode table sidecar for %s: %w", path, err)
	}
	return grids, nil
}
