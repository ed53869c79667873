package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/miajac/theiceweshare/internal/model"
)

// SQLiteStore keeps harvest runs and their records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS harvest_runs (
	id           TEXT PRIMARY KEY,
	record_count INTEGER NOT NULL,
	created_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS photo_records (
	run_id            TEXT NOT NULL REFERENCES harvest_runs(id),
	position          INTEGER NOT NULL,
	digital_file_id   TEXT NOT NULL,
	photograph_number TEXT,
	glims_glacier_id  TEXT,
	glacier_name      TEXT,
	photographer      TEXT,
	date              TEXT,
	spatial_coverage  TEXT,
	PRIMARY KEY (run_id, digital_file_id)
);

CREATE INDEX IF NOT EXISTS idx_harvest_runs_created_at ON harvest_runs(created_at);
`

// recordColumns lists photo_records value columns in model.Columns order.
var recordColumns = []string{
	"digital_file_id",
	"photograph_number",
	"glims_glacier_id",
	"glacier_name",
	"photographer",
	"date",
	"spatial_coverage",
}

// Migrate creates the run and record tables if they do not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores records as a new run and returns its id.
func (s *SQLiteStore) SaveRun(ctx context.Context, records []model.Record) (string, error) {
	id := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO harvest_runs (id, record_count, created_at) VALUES (?, ?, ?)`,
		id, len(records), time.Now().UTC(),
	); err != nil {
		return "", eris.Wrap(err, "sqlite: insert run")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO photo_records (
		run_id, position, digital_file_id, photograph_number, glims_glacier_id,
		glacier_name, photographer, date, spatial_coverage
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: prepare record insert")
	}
	defer stmt.Close() //nolint:errcheck

	for i, r := range records {
		args := []any{id, i}
		for _, f := range model.Columns {
			args = append(args, nullable(r, f))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", eris.Wrapf(err, "sqlite: insert record %s", r.ID())
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "sqlite: commit")
	}
	return id, nil
}

// LatestRun returns the most recently stored run and its records in their
// original order.
func (s *SQLiteStore) LatestRun(ctx context.Context) (string, []model.Record, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM harvest_runs ORDER BY rowid DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, eris.New("sqlite: no harvest runs stored")
	}
	if err != nil {
		return "", nil, eris.Wrap(err, "sqlite: latest run")
	}

	recs, err := s.RunRecords(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, recs, nil
}

// RunRecords returns the records stored for runID.
func (s *SQLiteStore) RunRecords(ctx context.Context, runID string) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT digital_file_id, photograph_number, glims_glacier_id,
		glacier_name, photographer, date, spatial_coverage
		FROM photo_records WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query records for run %s", runID)
	}
	defer rows.Close() //nolint:errcheck

	var recs []model.Record
	for rows.Next() {
		vals := make([]sql.NullString, len(recordColumns))
		dest := make([]any, len(vals))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		rec := model.NewRecord()
		for i, f := range model.Columns {
			if vals[i].Valid {
				rec.Set(f, vals[i].String)
			}
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: iterate records")
}

func nullable(r model.Record, f model.Field) sql.NullString {
	v, ok := r.Get(f)
	return sql.NullString{String: v, Valid: ok}
}

// SQLiteSink is a Sink that appends each persisted result set as a new run.
type SQLiteSink struct {
	DSN string

	// RunID is set after a successful Persist.
	RunID string
}

// Persist implements Sink.
func (s *SQLiteSink) Persist(ctx context.Context, records []model.Record) error {
	st, err := NewSQLite(s.DSN)
	if err != nil {
		return eris.Wrapf(ErrIO, "%v", err)
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return eris.Wrapf(ErrIO, "%v", err)
	}
	id, err := st.SaveRun(ctx, records)
	if err != nil {
		return eris.Wrapf(ErrIO, "%v", err)
	}
	s.RunID = id
	return nil
}
