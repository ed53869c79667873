package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miajac/theiceweshare/internal/model"
	"github.com/miajac/theiceweshare/internal/tabular"
)

func TestSinkFor(t *testing.T) {
	s, err := SinkFor("out/Updated_Metadata.xlsx")
	require.NoError(t, err)
	assert.IsType(t, &XLSXSink{}, s)

	s, err = SinkFor("harvest.SQLite")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteSink{}, s)

	_, err = SinkFor("out.json")
	require.Error(t, err)
}

func TestXLSXSink_PersistAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Updated_Metadata.xlsx")
	recs := []model.Record{
		testRecord("A1", "PN1", "Muir Glacier"),
		testRecord("A2", "", "Taku Glacier"),
	}

	require.NoError(t, (&XLSXSink{Path: path}).Persist(context.Background(), recs))

	rows, err := tabular.ReadXLSX(path, SheetName)
	require.NoError(t, err)
	assert.Equal(t, model.Header(), rows[0])

	got, err := LoadRecords(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].ID())
	assert.Equal(t, "PN1", got[0].Value(model.FieldPhotographNumber))
	assert.Equal(t, "Taku Glacier", got[1].Value(model.FieldGlacierName))
}

func TestXLSXSink_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := (&XLSXSink{Path: filepath.Join(blocker, "out.xlsx")}).Persist(context.Background(), []model.Record{testRecord("A", "", "")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
}

func TestLoadRecords_CSVSkipsBlankIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.csv")
	require.NoError(t, os.WriteFile(path, []byte("Digital File ID,Glacier Name\nA1,Muir\n,orphan\n"), 0o644))

	recs, err := LoadRecords(context.Background(), path, "")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Muir", recs[0].Value(model.FieldGlacierName))
}

func TestLoadRecords_Missing(t *testing.T) {
	_, err := LoadRecords(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
}
