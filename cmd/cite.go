package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/miajac/theiceweshare/internal/citation"
	"github.com/miajac/theiceweshare/internal/harvest"
	"github.com/miajac/theiceweshare/internal/store"
)

var (
	citeMetadata string
	citeAccessed string
)

var citeCmd = &cobra.Command{
	Use:   "cite ID...",
	Short: "Print citations for harvested photographs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := firstNonEmpty(citeMetadata, cfg.Citation.MetadataPath)
		accessed := firstNonEmpty(citeAccessed, cfg.Citation.Accessed)

		recs, err := store.LoadRecords(cmd.Context(), path, "")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range args {
			rec, err := citation.Find(recs, harvest.NormalizeIdentifier(id))
			if err != nil {
				fmt.Fprintf(out, "%s: not found\n", id) //nolint:errcheck
				continue
			}
			fmt.Fprintln(out, citation.Format(rec, accessed)) //nolint:errcheck
		}
		return nil
	},
}

func init() {
	citeCmd.Flags().StringVar(&citeMetadata, "metadata", "", "harvested metadata file")
	citeCmd.Flags().StringVar(&citeAccessed, "accessed", "", "access date printed in each citation")
	rootCmd.AddCommand(citeCmd)
}
