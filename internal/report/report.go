// Package report prints and saves the outcome of a harvest run.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/miajac/theiceweshare/internal/harvest"
)

// Summary is the terminal state of one run.
type Summary struct {
	RunID        string        `yaml:"run_id"`
	GeneratedAt  time.Time     `yaml:"generated_at"`
	InputPath    string        `yaml:"input_path"`
	OutputPath   string        `yaml:"output_path"`
	Requested    int           `yaml:"requested"`
	Captured     int           `yaml:"captured"`
	Stats        harvest.Stats `yaml:"stats"`
	Interrupted  bool          `yaml:"interrupted,omitempty"`
	Persisted    bool          `yaml:"persisted"`
	PersistError string        `yaml:"persist_error,omitempty"`
	Missing      []string      `yaml:"missing"`
}

// FromResult builds a Summary from a run result. persistErr is the sink
// error, if any; the sink is assumed skipped when nothing was captured.
func FromResult(runID, input, output string, res *harvest.Result, persistErr error) Summary {
	s := Summary{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		InputPath:   input,
		OutputPath:  output,
		Requested:   len(res.Requested),
		Captured:    res.Records.Len(),
		Stats:       res.Stats,
		Interrupted: res.Interrupted,
		Missing:     res.Missing,
	}
	if persistErr != nil {
		s.PersistError = persistErr.Error()
	} else {
		s.Persisted = s.Captured > 0
	}
	return s
}

// OK reports whether the run produced a usable output.
func (s Summary) OK() bool {
	return s.Persisted
}

var (
	good = color.New(color.FgGreen, color.Bold)
	bad  = color.New(color.FgRed, color.Bold)
	warn = color.New(color.FgYellow)
)

// Print writes the human-readable report.
func Print(w io.Writer, s Summary) {
	fmt.Fprintln(w) //nolint:errcheck
	if s.Interrupted {
		warn.Fprintln(w, "⚠️  Run interrupted; reporting what was captured so far.") //nolint:errcheck
	}
	switch {
	case s.Captured == 0:
		bad.Fprintln(w, "❌ No metadata retrieved.") //nolint:errcheck
	case s.Persisted:
		good.Fprintf(w, "✅ Metadata successfully written to %s (%d of %d File IDs)\n", s.OutputPath, s.Captured, s.Requested) //nolint:errcheck
	default:
		bad.Fprintf(w, "❌ Failed to write metadata to %s: %s\n", s.OutputPath, s.PersistError) //nolint:errcheck
	}

	fmt.Fprintf(w, "Batches: %d (failed %d)  Rows: %d (failed %d, duplicates %d)\n", //nolint:errcheck
		s.Stats.Batches, s.Stats.FailedBatches, s.Stats.Rows, s.Stats.FailedRows, s.Stats.Duplicates)

	PrintMissing(w, s.Missing)
}

// PrintMissing lists requested identifiers absent from the output, or
// confirms that none are.
func PrintMissing(w io.Writer, missing []string) {
	if len(missing) == 0 {
		good.Fprintln(w, "\n✅ All File IDs accounted for.") //nolint:errcheck
		return
	}
	warn.Fprintf(w, "\n⚠️  The following %d File IDs were not found in the updated metadata:\n", len(missing)) //nolint:errcheck
	for _, id := range missing {
		fmt.Fprintln(w, id) //nolint:errcheck
	}
}

// WriteYAML saves s to path.
func WriteYAML(path string, s Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return eris.Wrap(err, "report: marshal yaml")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}
