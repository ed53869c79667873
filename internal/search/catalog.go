package search

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/miajac/theiceweshare/internal/extract"
	"github.com/miajac/theiceweshare/internal/model"
)

var _ Session = (*CatalogSession)(nil)

// CatalogSession answers queries from records already on hand, rendering them
// as result rows in the configured layout. It backs offline runs against a
// previously harvested workbook.
type CatalogSession struct {
	layout    extract.Layout
	byID      map[string]model.Record
	Submitted [][]string
}

// NewCatalogSession indexes records by Digital File ID. Later duplicates are
// ignored.
func NewCatalogSession(records []model.Record, layout extract.Layout) *CatalogSession {
	byID := make(map[string]model.Record, len(records))
	for _, r := range records {
		if r.ID() == "" {
			continue
		}
		if _, ok := byID[r.ID()]; !ok {
			byID[r.ID()] = r
		}
	}
	return &CatalogSession{
		layout: extract.New(layout).Layout(),
		byID:   byID,
	}
}

// Open implements Session.
func (c *CatalogSession) Open(_ context.Context) error { return nil }

// Close implements Session.
func (c *CatalogSession) Close() error { return nil }

// Submit returns one rendered row per known identifier in batch, or
// ErrNoResults when none are known.
func (c *CatalogSession) Submit(ctx context.Context, batch []string) ([]extract.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.Submitted = append(c.Submitted, append([]string(nil), batch...))

	var rows []extract.Row
	for _, id := range batch {
		rec, ok := c.byID[model.NormalizeID(id)]
		if !ok {
			continue
		}
		rows = append(rows, c.render(rec))
	}
	if len(rows) == 0 {
		return nil, eris.Wrapf(ErrNoResults, "catalog has none of %d identifiers", len(batch))
	}
	return rows, nil
}

func (c *CatalogSession) render(rec model.Record) extract.StaticRow {
	l := c.layout
	width := max(l.GlacierName, l.Photographer, l.Date, l.SpatialCoverage, l.FileInfo)
	cells := make(extract.StaticRow, width)

	cells[l.GlacierName-1] = rec.Value(model.FieldGlacierName)
	cells[l.Photographer-1] = rec.Value(model.FieldPhotographer)
	cells[l.Date-1] = rec.Value(model.FieldDate)
	cells[l.SpatialCoverage-1] = rec.Value(model.FieldSpatialCoverage)

	parts := make([]string, len(extract.CompoundFields))
	for i, f := range extract.CompoundFields {
		parts[i] = rec.Value(f)
	}
	cells[l.FileInfo-1] = strings.TrimRight(strings.Join(parts, "\n"), "\n")
	return cells
}
