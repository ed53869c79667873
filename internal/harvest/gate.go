package harvest

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
)

// Gate blocks the run until the search surface has been prepared by hand.
type Gate interface {
	Wait(ctx context.Context) error
}

// NopGate never blocks.
type NopGate struct{}

// Wait implements Gate.
func (NopGate) Wait(ctx context.Context) error { return ctx.Err() }

// DefaultPrompt asks the operator to switch the search page into file ID mode.
const DefaultPrompt = "Please check the box labeled 'Search by Digital File ID or GLIMS ID' in the browser window.\nPress Enter here once you've done that..."

// PromptGate prints Message to Out and waits for a line on In.
type PromptGate struct {
	In      io.Reader
	Out     io.Writer
	Message string
}

// Wait implements Gate. A closed input counts as confirmation so that piped
// runs are not stuck. The read runs on its own goroutine; if ctx ends first
// and In is an io.Closer it is closed so that goroutine returns. Any other
// reader keeps it blocked until the reader yields a line or EOF.
func (g PromptGate) Wait(ctx context.Context) error {
	msg := g.Message
	if msg == "" {
		msg = DefaultPrompt
	}
	if g.Out != nil {
		fmt.Fprintln(g.Out, msg) //nolint:errcheck
	}

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(g.In).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		if c, ok := g.In.(io.Closer); ok {
			_ = c.Close()
		}
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return eris.Wrap(err, "harvest: read confirmation")
		}
		return nil
	}
}
