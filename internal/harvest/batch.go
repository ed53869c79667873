package harvest

import "github.com/rotisserie/eris"

// Batch is one query's worth of identifiers.
type Batch []string

// Partition splits ids into consecutive batches of size, the last one
// possibly shorter. The concatenated batches equal ids.
func Partition(ids []string, size int) ([]Batch, error) {
	if size < 1 {
		return nil, eris.Wrapf(ErrConfig, "batch size %d", size)
	}
	batches := make([]Batch, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, Batch(ids[start:end:end]))
	}
	return batches, nil
}
