package harvest

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/miajac/theiceweshare/internal/extract"
	"github.com/miajac/theiceweshare/internal/search"
)

// Stats counts what happened during a run.
type Stats struct {
	Batches       int `yaml:"batches"`
	FailedBatches int `yaml:"failed_batches"`
	Rows          int `yaml:"rows"`
	FailedRows    int `yaml:"failed_rows"`
	Duplicates    int `yaml:"duplicates"`
}

// Result is the terminal state of a run.
type Result struct {
	Requested   []string
	Records     *Accumulator
	Missing     []string
	Stats       Stats
	Interrupted bool
}

// EmptyResult is the result of a run that captured nothing: every requested
// identifier is missing.
func EmptyResult(requested []string) *Result {
	return &Result{
		Requested: requested,
		Records:   NewAccumulator(),
		Missing:   ReconcileKeys(requested, nil),
	}
}

// Harvester owns one search session and the result set for a run.
type Harvester struct {
	session   search.Session
	extractor *extract.Extractor
	gate      Gate
	batchSize int
	log       *zap.Logger
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithGate sets the confirmation gate waited on before the first batch.
func WithGate(g Gate) Option {
	return func(h *Harvester) { h.gate = g }
}

// WithLogger overrides the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harvester) { h.log = l }
}

// New creates a Harvester.
func New(session search.Session, extractor *extract.Extractor, batchSize int, opts ...Option) *Harvester {
	h := &Harvester{
		session:   session,
		extractor: extractor,
		gate:      NopGate{},
		batchSize: batchSize,
		log:       zap.L(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Run harvests requested. Only an invalid batch size, a session that cannot
// be opened, or a failed gate are returned as errors; failed batches and rows
// are logged and skipped. Cancelling ctx stops issuing batches and returns
// what was captured so far.
func (h *Harvester) Run(ctx context.Context, requested []string) (*Result, error) {
	batches, err := Partition(requested, h.batchSize)
	if err != nil {
		return nil, err
	}

	if err := h.session.Open(ctx); err != nil {
		return nil, eris.Wrap(err, "harvest: open session")
	}
	defer func() {
		if err := h.session.Close(); err != nil {
			h.log.Warn("harvest: close session", zap.Error(err))
		}
	}()

	if err := h.gate.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "harvest: wait for confirmation")
	}

	res := &Result{Requested: requested}
	acc := NewAccumulator()
	for i, b := range batches {
		if ctx.Err() != nil {
			res.Interrupted = true
			h.log.Warn("harvest: interrupted",
				zap.Int("batches_done", i),
				zap.Int("batches_total", len(batches)),
			)
			break
		}
		acc = h.processBatch(ctx, acc, i+1, len(batches), b, &res.Stats)
	}

	res.Records = acc
	res.Missing = Reconcile(requested, acc)
	return res, nil
}

// processBatch submits one batch and folds its rows into acc. Errors stop at
// this boundary: a failed batch contributes nothing, a failed row is skipped.
func (h *Harvester) processBatch(ctx context.Context, acc *Accumulator, n, total int, b Batch, stats *Stats) *Accumulator {
	log := h.log.With(zap.Int("batch", n), zap.Int("of", total), zap.Int("ids", len(b)))
	log.Info("processing batch")
	stats.Batches++

	rows, err := h.session.Submit(ctx, b)
	if err != nil {
		stats.FailedBatches++
		if errors.Is(err, search.ErrNoResults) {
			log.Warn("batch returned no results", zap.Error(err))
		} else {
			log.Error("batch failed", zap.Error(err))
		}
		return acc
	}

	added := 0
	for i, row := range rows {
		stats.Rows++
		rec, err := h.extractor.Extract(row)
		if err != nil {
			stats.FailedRows++
			log.Warn("failed to parse row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		if !acc.Ingest(rec) {
			stats.Duplicates++
			log.Debug("duplicate record dropped", zap.String("id", rec.ID()))
			continue
		}
		added++
	}

	log.Info("batch complete",
		zap.Int("rows", len(rows)),
		zap.Int("added", added),
		zap.Int("captured", acc.Len()),
	)
	return acc
}
