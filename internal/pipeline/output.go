package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/polymerlab/matsheet/internal/dataset"
	"github.com/polymerlab/matsheet/internal/extract"
)

// Output file names within the output directory.
const (
	HTMLRecordsFile   = "html_data.json"
	PDFRecordsFile    = "pdf_data.json"
	DirtyDataFile     = "dirty_data.jsonl"
	MergedRecordsFile = "merged_data.json"
	DatasetFile       = "sft_dataset.jsonl"
)

// WriteJSON writes v as indented JSON to path, creating parent directories.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFile(path, append(data, '\n'))
}

// WriteDirtyLog writes the dirty-data log as JSONL, one rejection per line.
func WriteDirtyLog(path string, log *extract.DirtyLog) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, entry := range log.Entries() {
		if err := enc.Encode(entry); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	}
	return writeFile(path, buf.Bytes())
}

// WriteDatasetJSONL writes instruction rows as JSONL.
func WriteDatasetJSONL(path string, rows []dataset.Row) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
	}
	return writeFile(path, buf.Bytes())
}

// ReadJSON reads a JSON file written by WriteJSON into v.
func ReadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
