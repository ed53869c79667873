package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miajac/theiceweshare/internal/extract"
	"github.com/miajac/theiceweshare/internal/model"
)

func record(id, photoNum, glims, glacier string) model.Record {
	rec := model.NewRecord()
	rec.Set(model.FieldDigitalFileID, id)
	rec.Set(model.FieldPhotographNumber, photoNum)
	rec.Set(model.FieldGLIMSID, glims)
	rec.Set(model.FieldGlacierName, glacier)
	return rec
}

func TestCatalogSession_RoundTripsThroughExtractor(t *testing.T) {
	recs := []model.Record{
		record("A1", "PN1", "G-1", "Muir Glacier"),
		record("A2", "", "G-2", "Taku Glacier"),
	}
	sess := NewCatalogSession(recs, extract.DefaultLayout())
	require.NoError(t, sess.Open(context.Background()))

	rows, err := sess.Submit(context.Background(), []string{"A1", "A9", "A2"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	ex := extract.New(extract.DefaultLayout())
	got, err := ex.Extract(rows[0])
	require.NoError(t, err)
	assert.Equal(t, recs[0].Row(), got.Row())

	got, err = ex.Extract(rows[1])
	require.NoError(t, err)
	assert.Equal(t, "A2", got.ID())
	assert.Equal(t, "G-2", got.Value(model.FieldGLIMSID))
	_, ok := got.Get(model.FieldPhotographNumber)
	assert.False(t, ok)

	assert.Equal(t, [][]string{{"A1", "A9", "A2"}}, sess.Submitted)
	assert.NoError(t, sess.Close())
}

func TestCatalogSession_NoMatches(t *testing.T) {
	sess := NewCatalogSession(nil, extract.DefaultLayout())

	rows, err := sess.Submit(context.Background(), []string{"Z1"})
	assert.Nil(t, rows)
	assert.True(t, errors.Is(err, ErrNoResults))
}

func TestCatalogSession_FirstDuplicateWins(t *testing.T) {
	sess := NewCatalogSession([]model.Record{
		record("X", "first", "", ""),
		record("X", "second", "", ""),
	}, extract.DefaultLayout())

	rows, err := sess.Submit(context.Background(), []string{"X"})
	require.NoError(t, err)
	rec, err := extract.New(extract.Layout{}).Extract(rows[0])
	require.NoError(t, err)
	assert.Equal(t, "first", rec.Value(model.FieldPhotographNumber))
}

func TestCatalogSession_MatchesDecomposedQuery(t *testing.T) {
	sess := NewCatalogSession([]model.Record{record("Caf\u00e9-1", "PN1", "", "")}, extract.DefaultLayout())

	rows, err := sess.Submit(context.Background(), []string{"Cafe\u0301-1"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCatalogSession_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCatalogSession(nil, extract.DefaultLayout()).Submit(ctx, []string{"A"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryPayload(t *testing.T) {
	assert.Equal(t, "A1\nA2\nA3", QueryPayload([]string{"A1", "A2", "A3"}))
	assert.Equal(t, "", QueryPayload(nil))
}
