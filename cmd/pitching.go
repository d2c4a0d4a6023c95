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

var pitchingDates []string

var pitchingCmd = &cobra.Command{
	Use:   "pitching [<pitcher>]",
	Short: "Pitcher board, or one pitcher's pitch mix",
	Long: `Without a name, rank pitchers in the selected sessions by max release speed
with strike, whiff (per swing) and zone rates; Δ% compares max velocity with
the most recent earlier session.

With a name, break that pitcher's pitches down by type in canonical order
(Fastball, Slider, Cutter, Curveball, Splitter, ChangeUp, OneSeam,
TwoSeamFastball, then others); Δ% compares mean velocity per type.

Without --date the latest session is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return printPitching(cmd.OutOrStdout(), events.Snapshot(), name, pitchingDates)
	},
}

func init() {
	pitchingCmd.Flags().StringArrayVar(&pitchingDates, "date", nil, "session date YYYY-MM-DD (repeatable)")
}

func printPitching(w io.Writer, snap *store.Snapshot, name string, rawDates []string) error {
	if !hasData(w, snap) {
		return nil
	}
	filters := []store.Filter{store.OfKind(model.KindPitching)}
	if name != "" {
		filters = append(filters, store.ForSubject(name))
	}
	pitches := snap.Filter(filters...)
	if len(pitches) == 0 {
		if name != "" {
			return fmt.Errorf("no pitches for pitcher %q", name)
		}
		fmt.Fprintln(w, "No pitching data.")
		return nil
	}

	dates, err := selectDates(rawDates, store.DistinctDates(pitches))
	if err != nil {
		return err
	}
	current := store.Apply(pitches, store.OnDates(dates...))
	if len(current) == 0 {
		fmt.Fprintf(w, "No pitches on %s.\n", selectionLabel(dates))
		return nil
	}

	if name == "" {
		res := compare.Against(pitches, dates, aggregator.PitcherBoard, aggregator.MaxVelo)
		fmt.Fprintf(w, "\n=== Pitchers: %s ===\n\n", selectionLabel(dates))
		report.PrintPitcherBoard(w, aggregator.PitcherBoard(current), res)
		return nil
	}
	res := compare.Against(pitches, dates, aggregator.PitchMix, aggregator.MeanVelo)
	fmt.Fprintf(w, "\n=== Pitch mix: %s, %s ===\n\n", name, selectionLabel(dates))
	report.PrintPitchMix(w, aggregator.PitchMix(current), res)
	return nil
}
