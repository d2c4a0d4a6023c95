package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/go-bb-metrics/internal/aggregator"
	"github.com/pable/go-bb-metrics/internal/compare"
	"github.com/pable/go-bb-metrics/internal/model"
	"github.com/pable/go-bb-metrics/internal/report"
	"github.com/pable/go-bb-metrics/internal/store"
)

var teamDates []string

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Hitting board for the selected sessions",
	Long: `Rank every hitter in the selected sessions by max exit speed and show
mean exit speed, launch angle, max distance and barrel rate. The Δ% column
compares mean exit speed with the most recent earlier session that is not
selected.

Without --date the latest session is used.

Example:
  bbmetrics team --date 2024-05-08 --date 2024-05-09`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printTeam(cmd.OutOrStdout(), events.Snapshot(), teamDates)
	},
}

func init() {
	teamCmd.Flags().StringArrayVar(&teamDates, "date", nil, "session date YYYY-MM-DD (repeatable)")
}

func printTeam(w io.Writer, snap *store.Snapshot, rawDates []string) error {
	if !hasData(w, snap) {
		return nil
	}
	hits := snap.Filter(store.OfKind(model.KindHitting))
	dates, err := selectDates(rawDates, store.DistinctDates(hits))
	if err != nil {
		return err
	}

	rows := aggregator.HittingBoard(snap.Filter(store.OfKind(model.KindHitting), store.OnDates(dates...)))
	if len(rows) == 0 {
		fmt.Fprintf(w, "No batted balls on %s.\n", selectionLabel(dates))
		return nil
	}
	res := compare.Against(hits, dates, aggregator.HittingBoard, aggregator.MeanSpeed)

	fmt.Fprintf(w, "\n=== Team hitting: %s ===\n\n", selectionLabel(dates))
	report.PrintHittingBoard(w, rows, res)
	return nil
}
