// Package search drives the glacier photo search page one batch of
// identifiers at a time.
package search

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/miajac/theiceweshare/internal/extract"
)

// ErrNoResults means no result row appeared within the results timeout.
var ErrNoResults = eris.New("no results rendered")

// Session is one interactive search surface. Submissions must be sequential:
// each one mutates the page state the next one starts from.
type Session interface {
	// Open prepares the search surface.
	Open(ctx context.Context) error

	// Submit queries one batch of identifiers and blocks until result rows
	// are rendered or the results timeout elapses (ErrNoResults).
	Submit(ctx context.Context, batch []string) ([]extract.Row, error)

	// Close releases the session.
	Close() error
}
