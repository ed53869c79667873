package harvest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("ID%03d", i)
	}
	return out
}

func TestPartition_Example(t *testing.T) {
	batches, err := Partition([]string{"A1", "A2", "A3"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []Batch{{"A1", "A2"}, {"A3"}}, batches)
}

func TestPartition_Properties(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for size := 1; size <= 7; size++ {
			requested := ids(n)
			batches, err := Partition(requested, size)
			require.NoError(t, err)

			var concat []string
			for i, b := range batches {
				assert.NotEmpty(t, b)
				assert.LessOrEqual(t, len(b), size)
				if i < len(batches)-1 {
					assert.Len(t, b, size)
				}
				concat = append(concat, b...)
			}
			if n == 0 {
				assert.Empty(t, batches)
				continue
			}
			assert.Equal(t, requested, concat, "n=%d size=%d", n, size)
		}
	}
}

func TestPartition_BatchesDoNotAlias(t *testing.T) {
	batches, err := Partition([]string{"A", "B", "C", "D"}, 2)
	require.NoError(t, err)

	batches[0] = append(batches[0], "X")
	assert.Equal(t, Batch{"C", "D"}, batches[1])
}

func TestPartition_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		_, err := Partition([]string{"A"}, size)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfig))
	}
}
