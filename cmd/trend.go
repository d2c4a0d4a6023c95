package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/go-bb-metrics/internal/aggregator"
	"github.com/pable/go-bb-metrics/internal/model"
	"github.com/pable/go-bb-metrics/internal/report"
	"github.com/pable/go-bb-metrics/internal/store"
)

var trendCmd = &cobra.Command{
	Use:   "trend [<player>]",
	Short: "Per-session exit speed trend for the team or one player",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return printTrend(cmd.OutOrStdout(), events.Snapshot(), name)
	},
}

func printTrend(w io.Writer, snap *store.Snapshot, name string) error {
	if !hasData(w, snap) {
		return nil
	}
	filters := []store.Filter{store.OfKind(model.KindHitting), store.Dated()}
	title := "team"
	if name != "" {
		filters = append(filters, store.ForSubject(name))
		title = name
	}
	rows := aggregator.Trend(snap.Filter(filters...))
	if len(rows) == 0 {
		return fmt.Errorf("no dated batted balls for %s", title)
	}
	fmt.Fprintf(w, "\n=== Trend: %s ===\n\n", title)
	report.PrintTrend(w, rows)
	return nil
}
