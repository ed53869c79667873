package model

// Field names one column of a harvested photo record. The string value is the
// column header used in the output workbook.
type Field string

const (
	FieldDigitalFileID    Field = "Digital File ID"
	FieldPhotographNumber Field = "Photograph Number"
	FieldGLIMSID          Field = "GLIMS Glacier ID"
	FieldGlacierName      Field = "Glacier Name"
	FieldPhotographer     Field = "Photographer"
	FieldDate             Field = "Date"
	FieldSpatialCoverage  Field = "Spatial Coverage"
)

// Columns is the output column order.
var Columns = []Field{
	FieldDigitalFileID,
	FieldPhotographNumber,
	FieldGLIMSID,
	FieldGlacierName,
	FieldPhotographer,
	FieldDate,
	FieldSpatialCoverage,
}

// Header returns the output header row.
func Header() []string {
	h := make([]string, len(Columns))
	for i, f := range Columns {
		h[i] = string(f)
	}
	return h
}

// ParseField maps a header cell to a known Field.
func ParseField(header string) (Field, bool) {
	for _, f := range Columns {
		if string(f) == header {
			return f, true
		}
	}
	return "", false
}
