package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileKeys(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		captured  []string
		want      []string
	}{
		{"all captured", []string{"A", "B"}, []string{"B", "A"}, []string{}},
		{"sorted difference", []string{"C3", "A1", "B2"}, []string{"B2"}, []string{"A1", "C3"}},
		{"nothing captured", []string{"B", "A"}, nil, []string{"A", "B"}},
		{"extra captured ignored", []string{"A"}, []string{"A", "Z"}, []string{}},
		{"empty request", nil, []string{"A"}, []string{}},
		{"duplicate requests", []string{"B", "B", "A"}, nil, []string{"A", "B"}},
		{"decomposed capture matches", []string{"Caf\u00e9-1"}, []string{"Cafe\u0301-1"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReconcileKeys(tt.requested, tt.captured)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_EmptyIffCovered(t *testing.T) {
	requested := []string{"A1", "A2", "A3"}
	acc := NewAccumulator()
	acc.Ingest(rec("A1", ""))
	acc.Ingest(rec("A2", ""))

	assert.Equal(t, []string{"A3"}, Reconcile(requested, acc))

	acc.Ingest(rec("A3", ""))
	assert.Empty(t, Reconcile(requested, acc))
}
