// Package extract turns rendered search result rows into photo records.
package extract

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/miajac/theiceweshare/internal/model"
)

// ErrRowExtraction marks a result row that could not be turned into a record.
var ErrRowExtraction = eris.New("row extraction failed")

// Row is one rendered result row. Cells returns the text of each cell in
// document order.
type Row interface {
	Cells() ([]string, error)
}

// StaticRow is a Row whose cell texts are already known.
type StaticRow []string

// Cells implements Row.
func (r StaticRow) Cells() ([]string, error) { return r, nil }

// CompoundFields are the sub-fields stacked, one per line, in the file info
// cell. Order is positional.
var CompoundFields = []model.Field{
	model.FieldDigitalFileID,
	model.FieldPhotographNumber,
	model.FieldGLIMSID,
}

// Layout holds the 1-based cell positions of each field in a result row.
type Layout struct {
	GlacierName     int
	Photographer    int
	Date            int
	SpatialCoverage int
	FileInfo        int
}

// DefaultLayout matches the glacier photo search results table.
func DefaultLayout() Layout {
	return Layout{
		GlacierName:     3,
		Photographer:    4,
		Date:            5,
		SpatialCoverage: 6,
		FileInfo:        7,
	}
}

// Extractor parses rows according to a Layout.
type Extractor struct {
	layout Layout
}

// New creates an Extractor. Zero positions in layout fall back to
// DefaultLayout.
func New(layout Layout) *Extractor {
	def := DefaultLayout()
	if layout.GlacierName <= 0 {
		layout.GlacierName = def.GlacierName
	}
	if layout.Photographer <= 0 {
		layout.Photographer = def.Photographer
	}
	if layout.Date <= 0 {
		layout.Date = def.Date
	}
	if layout.SpatialCoverage <= 0 {
		layout.SpatialCoverage = def.SpatialCoverage
	}
	if layout.FileInfo <= 0 {
		layout.FileInfo = def.FileInfo
	}
	return &Extractor{layout: layout}
}

// Layout returns the effective cell positions.
func (e *Extractor) Layout() Layout { return e.layout }

// Extract parses one row. A cell read failure, a layout position past the end
// of the row, or a row without a Digital File ID fails with ErrRowExtraction.
func (e *Extractor) Extract(row Row) (model.Record, error) {
	cells, err := row.Cells()
	if err != nil {
		return model.Record{}, eris.Wrapf(ErrRowExtraction, "read cells: %v", err)
	}

	positions := []struct {
		field model.Field
		pos   int
	}{
		{model.FieldGlacierName, e.layout.GlacierName},
		{model.FieldPhotographer, e.layout.Photographer},
		{model.FieldDate, e.layout.Date},
		{model.FieldSpatialCoverage, e.layout.SpatialCoverage},
	}

	rec := model.NewRecord()
	for _, p := range positions {
		text, err := cell(cells, p.pos)
		if err != nil {
			return model.Record{}, err
		}
		rec.Set(p.field, text)
	}

	info, err := cell(cells, e.layout.FileInfo)
	if err != nil {
		return model.Record{}, err
	}
	for i, v := range SplitCompound(info, len(CompoundFields)) {
		rec.Set(CompoundFields[i], v)
	}

	if rec.ID() == "" {
		return model.Record{}, eris.Wrap(ErrRowExtraction, "empty digital file id")
	}
	return rec, nil
}

func cell(cells []string, pos int) (string, error) {
	if pos > len(cells) {
		return "", eris.Wrapf(ErrRowExtraction, "cell %d missing (row has %d)", pos, len(cells))
	}
	return strings.TrimSpace(cells[pos-1]), nil
}

// SplitCompound splits a multi-line cell into at most n trimmed sub-fields.
// Missing trailing lines come back as "". Lines past n are ignored.
func SplitCompound(text string, n int) []string {
	out := make([]string, n)
	text = strings.ReplaceAll(strings.TrimSpace(text), "\r\n", "\n")
	if text == "" {
		return out
	}
	for i, line := range strings.Split(text, "\n") {
		if i >= n {
			break
		}
		out[i] = strings.TrimSpace(line)
	}
	return out
}
