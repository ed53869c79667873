package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/miajac/theiceweshare/internal/config"
	"github.com/miajac/theiceweshare/internal/extract"
	"github.com/miajac/theiceweshare/internal/harvest"
	"github.com/miajac/theiceweshare/internal/report"
	"github.com/miajac/theiceweshare/internal/search"
	"github.com/miajac/theiceweshare/internal/store"
)

var (
	errNothingRetrieved = eris.New("no metadata retrieved")
	errPersist          = eris.New("metadata not written")
)

var (
	harvestInput     string
	harvestOutput    string
	harvestColumn    string
	harvestSheet     string
	harvestReport    string
	harvestBatchSize int
	harvestNoPrompt  bool
	harvestOffline   string
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Look up File IDs in batches and write the captured metadata",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applyHarvestFlags(cmd, cfg)
		return runHarvest(ctx, cfg, harvestOffline, harvestNoPrompt, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// applyHarvestFlags lets explicitly set flags override configuration.
func applyHarvestFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		c.Harvest.InputPath = harvestInput
	}
	if f.Changed("output") {
		c.Harvest.OutputPath = harvestOutput
	}
	if f.Changed("column") {
		c.Harvest.ColumnName = harvestColumn
	}
	if f.Changed("sheet") {
		c.Harvest.SheetName = harvestSheet
	}
	if f.Changed("report") {
		c.Harvest.ReportPath = harvestReport
	}
	if f.Changed("batch-size") {
		c.Harvest.BatchSize = harvestBatchSize
	}
}

// runHarvest executes one harvest run end to end. offline, when set, names a
// previously harvested output that answers queries in place of the website.
func runHarvest(ctx context.Context, c *config.Config, offline string, noPrompt bool, in io.Reader, out, errOut io.Writer) error {
	if err := c.Validate(); err != nil {
		return eris.Wrap(harvest.ErrConfig, err.Error())
	}

	ids, err := harvest.LoadIdentifiers(c.Harvest.InputPath, c.Harvest.SheetName, c.Harvest.ColumnName)
	if err != nil {
		return err
	}
	zap.L().Info("identifiers loaded",
		zap.String("input", c.Harvest.InputPath),
		zap.Int("count", len(ids)),
	)

	var session search.Session
	if offline != "" {
		recs, err := store.LoadRecords(ctx, offline, "")
		if err != nil {
			return eris.Wrap(err, "load offline catalog")
		}
		session = search.NewCatalogSession(recs, layoutOf(c.Layout))
	} else {
		session = search.NewRodSession(c.Search)
	}

	var gate harvest.Gate = harvest.NopGate{}
	if !noPrompt && offline == "" {
		gate = harvest.PromptGate{In: in, Out: errOut}
	}

	return executeHarvest(ctx, c, ids, session, gate, out)
}

// executeHarvest runs the harvest over session, persists what was captured and
// prints the terminal report. A run that stops before its first batch still
// reports every identifier as missing.
func executeHarvest(ctx context.Context, c *config.Config, ids []string, session search.Session, gate harvest.Gate, out io.Writer) error {
	h := harvest.New(session, extract.New(layoutOf(c.Layout)), c.Harvest.BatchSize, harvest.WithGate(gate))
	res, err := h.Run(ctx, ids)
	if err != nil {
		if !errors.Is(err, harvest.ErrConfig) {
			aborted := report.FromResult(uuid.New().String(), c.Harvest.InputPath, c.Harvest.OutputPath, harvest.EmptyResult(ids), nil)
			report.Print(out, aborted)
			writeReport(c.Harvest.ReportPath, aborted)
		}
		return err
	}

	runID := uuid.New().String()
	var persistErr error
	if res.Records.Len() > 0 {
		sink, err := store.SinkFor(c.Harvest.OutputPath)
		if err != nil {
			persistErr = err
		} else {
			// Context-free write so an interrupted run still keeps what it captured.
			persistErr = sink.Persist(context.WithoutCancel(ctx), res.Records.Records())
			if s, ok := sink.(*store.SQLiteSink); ok && s.RunID != "" {
				runID = s.RunID
			}
		}
		if persistErr != nil {
			zap.L().Error("persist failed", zap.String("output", c.Harvest.OutputPath), zap.Error(persistErr))
		}
	}

	summary := report.FromResult(runID, c.Harvest.InputPath, c.Harvest.OutputPath, res, persistErr)
	report.Print(out, summary)

	writeReport(c.Harvest.ReportPath, summary)

	switch {
	case res.Records.Len() == 0:
		return errNothingRetrieved
	case persistErr != nil:
		return eris.Wrap(errPersist, persistErr.Error())
	}
	return nil
}

func writeReport(path string, summary report.Summary) {
	if path == "" {
		return
	}
	if err := report.WriteYAML(path, summary); err != nil {
		zap.L().Warn("report not written", zap.Error(err))
	}
}

func init() {
	f := harvestCmd.Flags()
	f.StringVar(&harvestInput, "input", "", "workbook or CSV holding the File IDs")
	f.StringVar(&harvestOutput, "output", "", "output path (.xlsx, .db, .sqlite)")
	f.StringVar(&harvestColumn, "column", "", "header of the identifier column")
	f.StringVar(&harvestSheet, "sheet", "", "input sheet name (default first sheet)")
	f.StringVar(&harvestReport, "report", "", "also write a YAML run report here")
	f.IntVar(&harvestBatchSize, "batch-size", 0, "identifiers per search query")
	f.BoolVar(&harvestNoPrompt, "no-prompt", false, "skip the manual search-mode confirmation")
	f.StringVar(&harvestOffline, "offline", "", "answer queries from a previously harvested output instead of the website")
	rootCmd.AddCommand(harvestCmd)
}
