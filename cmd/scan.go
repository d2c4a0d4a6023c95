package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/go-bb-metrics/internal/report"
	"github.com/pable/go-bb-metrics/internal/store"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Show how every file in the data directory was ingested",
	Long: `Scan the data directory and print one line per CSV/XLSX file: detected
format and kind, rows read, rows admitted and rejected, rows without a usable
date, and the error for files that were skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printScan(cmd.OutOrStdout(), events.Snapshot())
		return nil
	},
}

func printScan(w io.Writer, snap *store.Snapshot) {
	reports := snap.Reports()
	if len(reports) == 0 {
		report.PrintNoData(w)
		return
	}
	report.PrintScanReport(w, reports)
}
