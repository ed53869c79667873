package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miajac/theiceweshare/internal/model"
)

type failingRow struct{ err error }

func (r failingRow) Cells() ([]string, error) { return nil, r.err }

func resultRow(fileInfo string) StaticRow {
	return StaticRow{
		"",
		"thumb",
		" Muir Glacier ",
		"Field, William O.",
		"1941-08-13",
		"Alaska\n58.9N 136.1W",
		fileInfo,
	}
}

func TestSplitCompound(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"full", "ID1\nPN2\nGL3", []string{"ID1", "PN2", "GL3"}},
		{"id only", "ID1", []string{"ID1", "", ""}},
		{"two lines", "ID1\nPN2", []string{"ID1", "PN2", ""}},
		{"crlf and padding", "  ID1 \r\n PN2\r\nGL3  ", []string{"ID1", "PN2", "GL3"}},
		{"extra lines ignored", "ID1\nPN2\nGL3\nextra", []string{"ID1", "PN2", "GL3"}},
		{"empty", "   ", []string{"", "", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCompound(tt.text, 3))
		})
	}
}

func TestExtract_CompoundField(t *testing.T) {
	rec, err := New(DefaultLayout()).Extract(resultRow("ID1\nPN2\nGL3"))
	require.NoError(t, err)

	assert.Equal(t, "ID1", rec.ID())
	assert.Equal(t, "PN2", rec.Value(model.FieldPhotographNumber))
	assert.Equal(t, "GL3", rec.Value(model.FieldGLIMSID))
	assert.Equal(t, "Muir Glacier", rec.Value(model.FieldGlacierName))
	assert.Equal(t, "Field, William O.", rec.Value(model.FieldPhotographer))
	assert.Equal(t, "1941-08-13", rec.Value(model.FieldDate))
	assert.Equal(t, "Alaska\n58.9N 136.1W", rec.Value(model.FieldSpatialCoverage))
}

func TestExtract_IdentifierOnly(t *testing.T) {
	rec, err := New(DefaultLayout()).Extract(resultRow("ID1"))
	require.NoError(t, err)

	assert.Equal(t, "ID1", rec.ID())
	_, ok := rec.Get(model.FieldPhotographNumber)
	assert.False(t, ok)
	_, ok = rec.Get(model.FieldGLIMSID)
	assert.False(t, ok)
}

func TestExtract_BlankCellsAreMissing(t *testing.T) {
	row := resultRow("ID1\nPN2")
	row[3] = "  "

	rec, err := New(DefaultLayout()).Extract(row)
	require.NoError(t, err)

	_, ok := rec.Get(model.FieldPhotographer)
	assert.False(t, ok)
}

func TestExtract_ShortRowFails(t *testing.T) {
	_, err := New(DefaultLayout()).Extract(StaticRow{"", "", "Muir Glacier"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowExtraction))
	assert.Contains(t, err.Error(), "cell 4 missing")
}

func TestExtract_EmptyIdentifierFails(t *testing.T) {
	_, err := New(DefaultLayout()).Extract(resultRow(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowExtraction))
}

func TestExtract_CellReadFailure(t *testing.T) {
	_, err := New(DefaultLayout()).Extract(failingRow{err: errors.New("stale element reference")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRowExtraction))
	assert.Contains(t, err.Error(), "stale element reference")
}

func TestNew_CustomLayout(t *testing.T) {
	ex := New(Layout{FileInfo: 1, GlacierName: 2})

	rec, err := ex.Extract(StaticRow{"ID7\nPN7", "Taku Glacier", "", "", "", ""})
	require.NoError(t, err)
	assert.Equal(t, "ID7", rec.ID())
	assert.Equal(t, "Taku Glacier", rec.Value(model.FieldGlacierName))
}
