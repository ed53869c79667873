package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Record is one harvested photo metadata row. Fields that were absent or blank
// in the source are simply not present in the map.
type Record struct {
	fields map[Field]string
}

// NewRecord creates an empty Record.
func NewRecord() Record {
	return Record{fields: make(map[Field]string, len(Columns))}
}

// NormalizeID trims surrounding whitespace and applies Unicode NFC, so that
// visually equal identifiers compare equal.
func NormalizeID(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// Set stores a field value after trimming surrounding whitespace. The Digital
// File ID is also NFC-normalized. Blank values leave the field missing.
func (r *Record) Set(f Field, value string) {
	value = strings.TrimSpace(value)
	if f == FieldDigitalFileID {
		value = NormalizeID(value)
	}
	if value == "" {
		delete(r.fields, f)
		return
	}
	if r.fields == nil {
		r.fields = make(map[Field]string, len(Columns))
	}
	r.fields[f] = value
}

// Get returns the field value and whether it is present.
func (r Record) Get(f Field) (string, bool) {
	v, ok := r.fields[f]
	return v, ok
}

// Value returns the field value, or "" when missing.
func (r Record) Value(f Field) string {
	return r.fields[f]
}

// ID returns the record's Digital File ID.
func (r Record) ID() string {
	return r.fields[FieldDigitalFileID]
}

// Row returns the record's values in Columns order. Missing fields are empty.
func (r Record) Row() []string {
	row := make([]string, len(Columns))
	for i, f := range Columns {
		row[i] = r.fields[f]
	}
	return row
}

// RecordFromRow builds a Record from a header and a matching row of cells.
// Unknown headers are ignored.
func RecordFromRow(header, row []string) Record {
	rec := NewRecord()
	for i, h := range header {
		f, ok := ParseField(strings.TrimSpace(h))
		if !ok || i >= len(row) {
			continue
		}
		rec.Set(f, row[i])
	}
	return rec
}
