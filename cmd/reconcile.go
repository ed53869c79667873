package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/miajac/theiceweshare/internal/harvest"
	"github.com/miajac/theiceweshare/internal/model"
	"github.com/miajac/theiceweshare/internal/report"
	"github.com/miajac/theiceweshare/internal/store"
	"github.com/miajac/theiceweshare/internal/tabular"
)

var (
	reconcileInput        string
	reconcileOutput       string
	reconcileColumn       string
	reconcileOutputColumn string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "List requested File IDs missing from a written output",
	RunE: func(cmd *cobra.Command, _ []string) error {
		input := firstNonEmpty(reconcileInput, cfg.Harvest.InputPath)
		output := firstNonEmpty(reconcileOutput, cfg.Harvest.OutputPath)
		column := firstNonEmpty(reconcileColumn, cfg.Harvest.ColumnName)

		requested, err := harvest.LoadIdentifiers(input, cfg.Harvest.SheetName, column)
		if err != nil {
			return err
		}

		var captured []string
		if reconcileOutputColumn == string(model.FieldDigitalFileID) {
			recs, err := store.LoadRecords(cmd.Context(), output, "")
			if err != nil {
				return err
			}
			captured = make([]string, 0, len(recs))
			for _, r := range recs {
				captured = append(captured, r.ID())
			}
		} else {
			tbl, err := tabular.ReadTable(output, "")
			if err != nil {
				return eris.Wrapf(store.ErrIO, "read %s: %v", output, err)
			}
			raw, err := tbl.Column(reconcileOutputColumn)
			if err != nil {
				return eris.Wrap(err, "reconcile")
			}
			captured = raw
		}

		missing := harvest.ReconcileKeys(requested, harvest.NormalizeIdentifiers(captured))
		zap.L().Info("reconciled",
			zap.Int("requested", len(requested)),
			zap.Int("missing", len(missing)),
		)
		report.PrintMissing(cmd.OutOrStdout(), missing)
		return nil
	},
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	f := reconcileCmd.Flags()
	f.StringVar(&reconcileInput, "input", "", "workbook or CSV holding the requested File IDs")
	f.StringVar(&reconcileOutput, "output", "", "previously written output")
	f.StringVar(&reconcileColumn, "column", "", "header of the requested identifier column")
	f.StringVar(&reconcileOutputColumn, "output-column", string(model.FieldDigitalFileID), "header of the identifier column in the output")
	rootCmd.AddCommand(reconcileCmd)
}
