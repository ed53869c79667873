package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/miajac/theiceweshare/internal/config"
	"github.com/miajac/theiceweshare/internal/extract"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "theiceweshare",
	Short:        "Glacier photo metadata harvester",
	Long:         "Looks up glacier photograph File IDs in the NSIDC Glacier Photograph Collection in batches, writes the captured metadata, and reports IDs that were not found.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// layoutOf converts configured cell positions to an extractor layout.
func layoutOf(c config.LayoutConfig) extract.Layout {
	return extract.Layout{
		GlacierName:     c.GlacierName,
		Photographer:    c.Photographer,
		Date:            c.Date,
		SpatialCoverage: c.SpatialCoverage,
		FileInfo:        c.FileInfo,
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
