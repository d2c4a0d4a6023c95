package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/go-bb-metrics/internal/model"
	"github.com/pable/go-bb-metrics/internal/report"
	"github.com/pable/go-bb-metrics/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List session dates and players",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		printList(cmd.OutOrStdout(), events.Snapshot())
		return nil
	},
}

func printList(w io.Writer, snap *store.Snapshot) {
	if !hasData(w, snap) {
		return
	}
	report.PrintSessions(w, sessions(snap))
	fmt.Fprintln(w)
	report.PrintSubjects(w, "Hitters", snap.Subjects(model.KindHitting))
	report.PrintSubjects(w, "Pitchers", snap.Subjects(model.KindPitching))
}

// sessions builds one line per date, newest first.
func sessions(snap *store.Snapshot) []report.Session {
	dates := snap.Dates()
	out := make([]report.Session, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		d := dates[i]
		s := report.Session{Date: d}
		hitters := make(map[string]struct{})
		pitchers := make(map[string]struct{})
		for _, e := range snap.Filter(store.OnDates(d)) {
			switch e.Kind {
			case model.KindHitting:
				s.Hits++
				hitters[e.Subject] = struct{}{}
			case model.KindPitching:
				s.Pitches++
				pitchers[e.Subject] = struct{}{}
			}
		}
		s.Hitters, s.Pitchers = len(hitters), len(pitchers)
		out = append(out, s)
	}
	return out
}
