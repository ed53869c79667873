// Package citation formats a harvested photo record as an NSIDC citation.
package citation

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/miajac/theiceweshare/internal/model"
)

// ErrNotFound means no record carries the requested Digital File ID.
var ErrNotFound = eris.New("file id not found in metadata")

const (
	publisher = "National Snow and Ice Data Center"
	siteURL   = "https://nsidc.org"

	unknownGlacier = "Unknown Glacier"
	unknownNumber  = "Unknown"
)

var photoNumberLabel = regexp.MustCompile(`Photograph [Nn]umber`)

// Format renders rec. accessed is the access date printed at the end, e.g.
// "May 2025".
func Format(rec model.Record, accessed string) string {
	glacier := orDefault(rec.Value(model.FieldGlacierName), unknownGlacier)
	number := orDefault(cleanPhotoNumber(rec.Value(model.FieldPhotographNumber)), unknownNumber)
	date := datePart(rec.Value(model.FieldDate))

	var b strings.Builder
	if p := rec.Value(model.FieldPhotographer); p != "" {
		b.WriteString(p + ". " + date + "[" + glacier + "]. " + publisher + ". ")
	} else {
		b.WriteString(publisher + ". " + date + "[" + glacier + "]. ")
	}
	b.WriteString("Photograph Number: " + number + ". " + siteURL + ". Accessed " + accessed + ".")
	return b.String()
}

// Find returns the first record with the given Digital File ID.
func Find(records []model.Record, id string) (model.Record, error) {
	for _, r := range records {
		if r.ID() == id {
			return r, nil
		}
	}
	return model.Record{}, eris.Wrapf(ErrNotFound, "file id %q", id)
}

// cleanPhotoNumber drops a leading "Photograph Number" label and the colon or
// spaces after it.
func cleanPhotoNumber(s string) string {
	if !strings.Contains(strings.ToLower(s), "photograph number") {
		return s
	}
	s = strings.TrimSpace(photoNumberLabel.ReplaceAllString(s, ""))
	return strings.TrimLeft(s, ": ")
}

// datePart returns "<date>. ", or "" without a date. Partially unknown dates
// such as "1941-XX-XX" are cut to the year.
func datePart(date string) string {
	if date == "" {
		return ""
	}
	if strings.Contains(date, "XX") || strings.Contains(date, "xx") {
		if len(date) > 4 {
			date = date[:4]
		}
	}
	return date + ". "
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
