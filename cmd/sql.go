package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-bb-metrics/internal/report"
	"github.com/pable/go-bb-metrics/internal/storage"
	"github.com/pable/go-bb-metrics/internal/store"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a SQL query over the scanned events",
	Long: `Load the current events into a throwaway in-memory SQLite database and run
an arbitrary query against it. Nothing is written to disk.

Schema overview:
  events(id, kind, subject, date, source,
    exit_speed, launch_angle, distance, direction, course,
    pitch_type, rel_speed, induced_vert_break, horz_break,
    plate_loc_side, plate_loc_height, pitch_call,
    is_barrel, is_strike, is_swing, is_whiff)
  hitting   -- view: hitting columns of events
  pitching  -- view: pitching columns of events

Example:
  bbmetrics sql "SELECT subject, AVG(exit_speed) FROM hitting GROUP BY subject"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSQL(cmd.OutOrStdout(), events.Snapshot(), strings.Join(args, " "))
	},
}

func runSQL(w io.Writer, snap *store.Snapshot, query string) error {
	db, err := storage.Open()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.LoadEvents(snap.Events()); err != nil {
		return fmt.Errorf("load %d events: %w", snap.Len(), err)
	}
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintQueryResult(w, cols, rows)
	return nil
}
