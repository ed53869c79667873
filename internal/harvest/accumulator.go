package harvest

import "github.com/miajac/theiceweshare/internal/model"

// Accumulator is the result set: one record per identifier, first seen wins.
type Accumulator struct {
	byID  map[string]model.Record
	order []string
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{byID: make(map[string]model.Record)}
}

// Ingest adds rec unless its normalized identifier is already present. It
// reports whether rec was added.
func (a *Accumulator) Ingest(rec model.Record) bool {
	id := NormalizeIdentifier(rec.ID())
	if _, ok := a.byID[id]; ok {
		return false
	}
	a.byID[id] = rec
	a.order = append(a.order, id)
	return true
}

// Has reports whether id has been captured.
func (a *Accumulator) Has(id string) bool {
	_, ok := a.byID[NormalizeIdentifier(id)]
	return ok
}

// Get returns the record captured for id.
func (a *Accumulator) Get(id string) (model.Record, bool) {
	rec, ok := a.byID[NormalizeIdentifier(id)]
	return rec, ok
}

// Len returns the number of captured identifiers.
func (a *Accumulator) Len() int { return len(a.order) }

// Keys returns captured identifiers in ingestion order.
func (a *Accumulator) Keys() []string {
	return append([]string(nil), a.order...)
}

// Records returns captured records in ingestion order.
func (a *Accumulator) Records() []model.Record {
	out := make([]model.Record, len(a.order))
	for i, id := range a.order {
		out[i] = a.byID[id]
	}
	return out
}
