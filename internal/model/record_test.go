package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_SetTrimsAndDropsBlank(t *testing.T) {
	t.Parallel()

	rec := NewRecord()
	rec.Set(FieldGlacierName, "  Muir Glacier \n")
	rec.Set(FieldPhotographer, "   ")

	v, ok := rec.Get(FieldGlacierName)
	assert.True(t, ok)
	assert.Equal(t, "Muir Glacier", v)

	_, ok = rec.Get(FieldPhotographer)
	assert.False(t, ok)
	assert.Equal(t, "", rec.Value(FieldPhotographer))
}

func TestRecord_SetBlankClearsExisting(t *testing.T) {
	t.Parallel()

	rec := NewRecord()
	rec.Set(FieldDate, "1941-08-13")
	rec.Set(FieldDate, "")

	_, ok := rec.Get(FieldDate)
	assert.False(t, ok)
}

func TestRecord_ZeroValueSet(t *testing.T) {
	t.Parallel()

	var rec Record
	rec.Set(FieldDigitalFileID, "muir1941081301")
	assert.Equal(t, "muir1941081301", rec.ID())
}

func TestRecord_IDIsNFCNormalized(t *testing.T) {
	t.Parallel()

	rec := NewRecord()
	rec.Set(FieldDigitalFileID, " Cafe\u0301-1 ")
	rec.Set(FieldGlacierName, "Cafe\u0301")

	assert.Equal(t, "Caf\u00e9-1", rec.ID())
	assert.Equal(t, "Cafe\u0301", rec.Value(FieldGlacierName), "only the identifier is normalized")
	assert.Equal(t, "Caf\u00e9-1", NormalizeID("Cafe\u0301-1"))
}

func TestRecord_Row(t *testing.T) {
	t.Parallel()

	rec := NewRecord()
	rec.Set(FieldDigitalFileID, "ID1")
	rec.Set(FieldGlacierName, "Muir Glacier")

	assert.Equal(t, []string{"ID1", "", "", "Muir Glacier", "", "", ""}, rec.Row())
}

func TestRecordFromRow(t *testing.T) {
	t.Parallel()

	header := []string{"Digital File ID", "Notes", " Photographer ", "Date"}
	rec := RecordFromRow(header, []string{"ID9", "ignored", "Field, H.F."})

	assert.Equal(t, "ID9", rec.ID())
	assert.Equal(t, "Field, H.F.", rec.Value(FieldPhotographer))
	_, ok := rec.Get(FieldDate)
	assert.False(t, ok)
}
