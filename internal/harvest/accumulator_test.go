package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miajac/theiceweshare/internal/model"
)

func rec(id, glacier string) model.Record {
	r := model.NewRecord()
	r.Set(model.FieldDigitalFileID, id)
	r.Set(model.FieldGlacierName, glacier)
	return r
}

func TestAccumulator_FirstSeenWins(t *testing.T) {
	acc := NewAccumulator()

	assert.True(t, acc.Ingest(rec("X", "first")))
	assert.True(t, acc.Ingest(rec("Y", "other")))
	assert.False(t, acc.Ingest(rec("X", "second")))
	assert.False(t, acc.Ingest(rec("X", "third")))

	assert.Equal(t, 2, acc.Len())
	got, ok := acc.Get("X")
	assert.True(t, ok)
	assert.Equal(t, "first", got.Value(model.FieldGlacierName))
	assert.Equal(t, []string{"X", "Y"}, acc.Keys())
}

func TestAccumulator_OneEntryPerDistinctID(t *testing.T) {
	acc := NewAccumulator()
	seq := []string{"A", "B", "A", "C", "B", "A", "D"}
	for i, id := range seq {
		acc.Ingest(rec(id, string(rune('a'+i))))
	}

	assert.Equal(t, []string{"A", "B", "C", "D"}, acc.Keys())
	recs := acc.Records()
	assert.Equal(t, "a", recs[0].Value(model.FieldGlacierName))
	assert.Equal(t, "b", recs[1].Value(model.FieldGlacierName))
	assert.Equal(t, "d", recs[2].Value(model.FieldGlacierName))
	assert.True(t, acc.Has("D"))
	assert.False(t, acc.Has("E"))
}

func TestAccumulator_KeysIsACopy(t *testing.T) {
	acc := NewAccumulator()
	acc.Ingest(rec("A", ""))

	keys := acc.Keys()
	keys[0] = "mutated"
	assert.True(t, acc.Has("A"))
	assert.Equal(t, []string{"A"}, acc.Keys())
}

func TestAccumulator_NormalizedIdentity(t *testing.T) {
	acc := NewAccumulator()
	decomposed := "Cafe\u0301-1"
	composed := "Caf\u00e9-1"

	assert.True(t, acc.Ingest(rec(decomposed, "first")))
	assert.False(t, acc.Ingest(rec(composed, "second")))

	assert.Equal(t, 1, acc.Len())
	assert.True(t, acc.Has(decomposed))
	assert.True(t, acc.Has(composed))
	assert.Equal(t, []string{composed}, acc.Keys())
}
