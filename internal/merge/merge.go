// Package merge folds flat records from both sources into one record per
// material identity.
package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polymerlab/matsheet/internal/extract"
)

// Source records one document that contributed to a merged record.
type Source struct {
	Type extract.SourceType `json:"type"`
	File string             `json:"file"`
}

// MergedRecord accumulates fields from every document describing the same
// material. Field insertion order is preserved for deterministic output.
type MergedRecord struct {
	names   []string
	fields  map[string]interface{}
	Sources []Source
}

// Get returns the value stored under a field name.
func (r *MergedRecord) Get(name string) (interface{}, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// FieldNames returns the field names in insertion order.
func (r *MergedRecord) FieldNames() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *MergedRecord) set(name string, value interface{}) {
	if _, ok := r.fields[name]; !ok {
		r.names = append(r.names, name)
	}
	r.fields[name] = value
}

// MarshalJSON serializes the record with fields in insertion order followed
// by the sources list.
func (r *MergedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.fields[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	if len(r.names) > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"sources":`)
	sources, err := json.Marshal(r.Sources)
	if err != nil {
		return nil, err
	}
	buf.Write(sources)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a merged record, preserving field order.
func (r *MergedRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("merged record: expected object")
	}

	r.names = nil
	r.fields = make(map[string]interface{})
	r.Sources = nil

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("merged record: expected field name")
		}

		if key == "sources" {
			if err := dec.Decode(&r.Sources); err != nil {
				return err
			}
			continue
		}

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if num, ok := raw.(json.Number); ok {
			val, err := num.Float64()
			if err != nil {
				return fmt.Errorf("merged record field %s: %w", key, err)
			}
			raw = val
		}
		r.set(key, raw)
	}
	return nil
}

// NormalizeIdentity folds a material name onto its merge identity: lowercase
// with everything but letters and digits removed, so spacing and punctuation
// variants of one grade collapse together.
func NormalizeIdentity(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Merge folds records by material identity. PDF records are folded before
// HTML records, and within one identity the first writer of a field wins, so
// vendor sheets take precedence over scraped pages. Skipped records and
// records without a material name do not participate; every contributing
// document is appended to the merged record's sources.
func Merge(pdfRecords, htmlRecords []*extract.FlatRecord) []*MergedRecord {
	byIdentity := make(map[string]*MergedRecord)
	var order []*MergedRecord

	fold := func(rec *extract.FlatRecord) {
		if rec.Skipped {
			return
		}
		identity := NormalizeIdentity(rec.MaterialName)
		if identity == "" {
			return
		}

		merged, ok := byIdentity[identity]
		if !ok {
			merged = &MergedRecord{fields: make(map[string]interface{})}
			byIdentity[identity] = merged
			order = append(order, merged)
		}

		for _, f := range rec.Fields() {
			if _, exists := merged.fields[f.Name]; !exists {
				merged.set(f.Name, f.Value)
			}
		}
		merged.Sources = append(merged.Sources, Source{Type: rec.SourceType, File: rec.SourceFile})
	}

	for _, rec := range pdfRecords {
		fold(rec)
	}
	for _, rec := range htmlRecords {
		fold(rec)
	}

	return order
}
