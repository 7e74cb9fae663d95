package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SourceType identifies the document format a record came from.
type SourceType string

// Supported source types.
const (
	SourceHTML SourceType = "html"
	SourcePDF  SourceType = "pdf"
)

// Vendor identifies the datasheet producer, detected from PDF full text.
type Vendor string

// Known vendors.
const (
	VendorShell      Vendor = "Shell"
	VendorExxonMobil Vendor = "ExxonMobil"
	VendorUnknown    Vendor = "Unknown"
)

// Skip reasons a caller must be able to distinguish.
const (
	SkipOverviewOrBlocked      = "overview_or_blocked"
	SkipInsufficientProperties = "insufficient_properties"
)

// Measurement is a validated value with its normalized unit.
type Measurement struct {
	Value float64
	Unit  string
}

// PropertyRecord accumulates validated properties for one source document.
// Property insertion order is preserved so repeated runs serialize
// byte-identically.
type PropertyRecord struct {
	MaterialName string
	SourceType   SourceType
	SourceFile   string
	Vendor       Vendor

	keys  []string
	props map[string]Measurement
}

// NewPropertyRecord creates an empty record for one document.
func NewPropertyRecord(materialName string, sourceType SourceType, sourceFile string) *PropertyRecord {
	return &PropertyRecord{
		MaterialName: materialName,
		SourceType:   sourceType,
		SourceFile:   sourceFile,
		props:        make(map[string]Measurement),
	}
}

// Set stores a measurement under a canonical key, overwriting any earlier
// value while keeping the key's original position.
func (r *PropertyRecord) Set(key string, m Measurement) {
	if _, ok := r.props[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.props[key] = m
}

// Get returns the measurement stored under key.
func (r *PropertyRecord) Get(key string) (Measurement, bool) {
	m, ok := r.props[key]
	return m, ok
}

// Len returns the number of populated properties.
func (r *PropertyRecord) Len() int {
	return len(r.keys)
}

// Keys returns the canonical keys in insertion order.
func (r *PropertyRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Flatten produces the externally visible record. Documents with fewer than
// two validated properties carry negligible information value and usually
// reflect a parse failure or an overview page, so they flatten into a skip
// record instead.
func (r *PropertyRecord) Flatten() *FlatRecord {
	flat := &FlatRecord{
		MaterialName: r.MaterialName,
		SourceType:   r.SourceType,
		SourceFile:   r.SourceFile,
		Vendor:       r.Vendor,
	}

	if r.Len() < 2 {
		flat.Skipped = true
		flat.SkippedReason = SkipInsufficientProperties
		return flat
	}

	flat.keys = r.Keys()
	flat.props = make(map[string]Measurement, len(r.props))
	for k, m := range r.props {
		flat.props[k] = m
	}
	return flat
}

// FlatRecord is the immutable per-document output unit: the document
// identity plus one scalar field pair (k, k_unit) per populated property.
type FlatRecord struct {
	MaterialName  string
	SourceType    SourceType
	SourceFile    string
	Vendor        Vendor
	Skipped       bool
	SkippedReason string

	keys  []string
	props map[string]Measurement
}

// SkipRecord builds a record describing a document rejected before or during
// extraction.
func SkipRecord(materialName string, sourceType SourceType, sourceFile, reason string) *FlatRecord {
	return &FlatRecord{
		MaterialName:  materialName,
		SourceType:    sourceType,
		SourceFile:    sourceFile,
		Skipped:       true,
		SkippedReason: reason,
	}
}

// Keys returns the canonical property keys in insertion order.
func (f *FlatRecord) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Property returns the measurement stored under key.
func (f *FlatRecord) Property(key string) (Measurement, bool) {
	m, ok := f.props[key]
	return m, ok
}

// Field is one scalar output field of a flat record.
type Field struct {
	Name  string
	Value interface{}
}

// Fields returns the record's mergeable fields in serialization order:
// material_name first, then k and k_unit per property. Source identity
// fields are excluded; the merger handles those as provenance.
func (f *FlatRecord) Fields() []Field {
	fields := []Field{{Name: "material_name", Value: f.MaterialName}}
	for _, k := range f.keys {
		m := f.props[k]
		fields = append(fields, Field{Name: k, Value: m.Value})
		fields = append(fields, Field{Name: k + "_unit", Value: m.Unit})
	}
	return fields
}

// MarshalJSON serializes the record as a flat object with deterministic
// field order.
func (f *FlatRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField(&buf, "material_name", f.MaterialName, true)
	writeField(&buf, "source_type", string(f.SourceType), false)
	writeField(&buf, "source_file", f.SourceFile, false)
	if f.SourceType == SourcePDF && f.Vendor != "" {
		writeField(&buf, "vendor", string(f.Vendor), false)
	}
	for _, k := range f.keys {
		m := f.props[k]
		writeField(&buf, k, m.Value, false)
		writeField(&buf, k+"_unit", m.Unit, false)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, name string, value interface{}, first bool) {
	if !first {
		buf.WriteByte(',')
	}
	key, _ := json.Marshal(name)
	buf.Write(key)
	buf.WriteByte(':')
	val, err := json.Marshal(value)
	if err != nil {
		val = []byte("null")
	}
	buf.Write(val)
}

// UnmarshalJSON restores a record from its flat serialized form, preserving
// property order. Skip records are not serialized, so decoded records are
// always live.
func (f *FlatRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("flat record: expected object")
	}

	var names []string
	values := make(map[string]interface{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("flat record: expected field name")
		}
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		names = append(names, key)
		values[key] = raw
	}

	f.keys = nil
	f.props = make(map[string]Measurement)

	for _, name := range names {
		switch name {
		case "material_name":
			f.MaterialName, _ = values[name].(string)
		case "source_type":
			if s, ok := values[name].(string); ok {
				f.SourceType = SourceType(s)
			}
		case "source_file":
			f.SourceFile, _ = values[name].(string)
		case "vendor":
			if s, ok := values[name].(string); ok {
				f.Vendor = Vendor(s)
			}
		default:
			if strings.HasSuffix(name, "_unit") {
				continue
			}
			num, ok := values[name].(json.Number)
			if !ok {
				continue
			}
			val, err := num.Float64()
			if err != nil {
				return fmt.Errorf("flat record field %s: %w", name, err)
			}
			unit, _ := values[name+"_unit"].(string)
			f.keys = append(f.keys, name)
			f.props[name] = Measurement{Value: val, Unit: unit}
		}
	}
	return nil
}

// RecordID derives a deterministic identifier for a document's record so
// re-runs over the same inputs log and dedupe identically.
func RecordID(sourceType SourceType, sourceFile string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s:%s", sourceType, sourceFile)))
}
