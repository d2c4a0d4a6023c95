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

var (
	playerDates []string
	playerAll   bool
)

// playerCmd prints one hitter's card, course grid, trend and history.
var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Hitting card for one player",
	Long: `Show a player's max and mean exit speed, launch angle and barrel rate for
the selected sessions (default: the player's latest session, or every session
with --all), then the 3x3 course grid, the per-session trend over all dates
and the batted-ball history of the selection.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printPlayer(cmd.OutOrStdout(), events.Snapshot(), args[0], playerDates, playerAll)
	},
}

func init() {
	playerCmd.Flags().StringArrayVar(&playerDates, "date", nil, "session date YYYY-MM-DD (repeatable)")
	playerCmd.Flags().BoolVar(&playerAll, "all", false, "use every session of the player")
}

func printPlayer(w io.Writer, snap *store.Snapshot, name string, rawDates []string, all bool) error {
	if !hasData(w, snap) {
		return nil
	}
	mine := snap.Filter(store.OfKind(model.KindHitting), store.ForSubject(name))
	if len(mine) == 0 {
		return fmt.Errorf("no batted balls for player %q", name)
	}
	history := store.DistinctDates(mine)

	var dates []model.Date
	if all {
		dates = history
	} else {
		var err error
		if dates, err = selectDates(rawDates, history); err != nil {
			return err
		}
	}

	selected := store.Apply(mine, store.OnDates(dates...))
	if all {
		// Undated rows belong to the whole period too.
		selected = mine
	}
	board := aggregator.HittingBoard(selected)
	if len(board) == 0 {
		fmt.Fprintf(w, "%s has no batted balls on %s.\n", name, selectionLabel(dates))
		return nil
	}
	res := compare.Against(mine, dates, aggregator.HittingBoard, aggregator.MeanSpeed)

	label := selectionLabel(dates)
	if all {
		label = "all"
	}
	report.PrintPlayerCard(w, name, label, board[0], res)

	fmt.Fprintf(w, "\n--- Course (mean exit speed, n) ---\n\n")
	report.PrintCourseGrid(w, aggregator.Course(selected))

	fmt.Fprintf(w, "\n--- Trend ---\n\n")
	report.PrintTrend(w, aggregator.Trend(mine))

	fmt.Fprintf(w, "\n--- History ---\n\n")
	report.PrintHistory(w, aggregator.History(selected), cfg.HistoryLimit)
	return nil
}
