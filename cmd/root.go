package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pable/go-bb-metrics/internal/config"
	"github.com/pable/go-bb-metrics/internal/ingest"
	"github.com/pable/go-bb-metrics/internal/logging"
	"github.com/pable/go-bb-metrics/internal/model"
	"github.com/pable/go-bb-metrics/internal/report"
	"github.com/pable/go-bb-metrics/internal/store"
)

var (
	dataDir    string
	configPath string
	logLevel   string

	cfg    *config.Config
	logger = zap.NewNop()
	// level controls logger at runtime; the shell's loglevel command sets it.
	level  = zap.NewAtomicLevelAt(zap.WarnLevel)
	events *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "bbmetrics",
	Short: "Batted-ball and pitch tracking metrics",
	Long: `Scan a directory of batted-ball (hitting) and pitch-tracking (pitching)
exports in CSV or XLSX format and print player, team and pitch-type summaries,
each compared against the most recent earlier session.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "directory scanned for CSV/XLSX exports (default from config: data)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $"+config.ConfigEnv+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(pitchingCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads config, builds the logger and performs the initial scan.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data") {
		c.DataDir = dataDir
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	l, lvl, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger, level = l, lvl
	events = store.New(logger, ingest.WithWorkers(cfg.Workers))

	_, err = rescan(cmd.Context())
	return err
}

// rescan rediscovers the data directory and swaps in a fresh snapshot. A
// missing directory yields an empty snapshot.
func rescan(ctx context.Context) (*store.Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := ingest.Discover(cfg.DataDir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("data directory does not exist", zap.String("dir", cfg.DataDir))
		paths, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan data: %w", err)
	}
	return events.Rebuild(ctx, paths)
}

// hasData prints the no-data hint and returns false when nothing was loaded.
func hasData(w io.Writer, snap *store.Snapshot) bool {
	if snap.Empty() {
		report.PrintNoData(w)
		return false
	}
	return true
}

// selectDates parses --date values into ascending order without repeats.
// With none given it picks the latest of available.
func selectDates(raw []string, available []model.Date) ([]model.Date, error) {
	if len(raw) == 0 {
		if len(available) == 0 {
			return nil, nil
		}
		return available[len(available)-1:], nil
	}
	out := make([]model.Date, 0, len(raw))
	for _, s := range raw {
		d, err := model.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --date: %w", err)
		}
		out = append(out, d)
	}
	slices.SortFunc(out, model.Date.Compare)
	return slices.CompactFunc(out, model.Date.Equal), nil
}

// selectionLabel renders a date selection for headers.
func selectionLabel(dates []model.Date) string {
	switch len(dates) {
	case 0:
		return "—"
	case 1:
		return dates[0].String()
	default:
		return fmt.Sprintf("%s … %s (%d)", dates[0], dates[len(dates)-1], len(dates))
	}
}
