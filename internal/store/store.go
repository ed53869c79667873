// Package store persists harvested records and reads them back.
package store

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/miajac/theiceweshare/internal/model"
	"github.com/miajac/theiceweshare/internal/tabular"
)

// ErrIO marks a failure to write or read persisted records.
var ErrIO = eris.New("record persistence failed")

// Sink persists a captured result set.
type Sink interface {
	Persist(ctx context.Context, records []model.Record) error
}

// SheetName is the worksheet written by the xlsx sink.
const SheetName = "Metadata"

// SinkFor picks a Sink by output file extension: .xlsx writes a workbook,
// .db/.sqlite/.sqlite3 appends a run to a SQLite database.
func SinkFor(path string) (Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return &XLSXSink{Path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteSink{DSN: path}, nil
	default:
		return nil, eris.Errorf("store: unsupported output type %q", filepath.Ext(path))
	}
}

// XLSXSink writes records to a workbook, replacing any existing file.
type XLSXSink struct {
	Path string
}

// Persist implements Sink.
func (s *XLSXSink) Persist(_ context.Context, records []model.Record) error {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Row()
	}
	if err := tabular.WriteXLSX(s.Path, SheetName, model.Header(), rows); err != nil {
		return eris.Wrapf(ErrIO, "write %s: %v", s.Path, err)
	}
	return nil
}

// LoadRecords reads records back from a previously written output: a
// workbook or CSV with the output header, or the latest run in a SQLite
// database. sheet optionally selects a workbook sheet.
func LoadRecords(ctx context.Context, path, sheet string) ([]model.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		st, err := NewSQLite(path)
		if err != nil {
			return nil, eris.Wrapf(ErrIO, "%v", err)
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return nil, eris.Wrapf(ErrIO, "%v", err)
		}
		_, recs, err := st.LatestRun(ctx)
		if err != nil {
			return nil, eris.Wrapf(ErrIO, "%v", err)
		}
		return recs, nil
	}

	tbl, err := tabular.ReadTable(path, sheet)
	if err != nil {
		return nil, eris.Wrapf(ErrIO, "read %s: %v", path, err)
	}
	recs := make([]model.Record, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		rec := model.RecordFromRow(tbl.Header, row)
		if rec.ID() == "" {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
