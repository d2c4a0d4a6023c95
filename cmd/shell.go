package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-bb-metrics/internal/model"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a session over the scanned events. Every command reads the current
snapshot; 'rescan' rereads the data directory and swaps in the new snapshot
once it is complete. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runShell(cmd.Context(), os.Stdin, cmd.OutOrStdout())
	},
}

func runShell(ctx context.Context, in io.Reader, out io.Writer) error {
	cGreeting.Fprintln(out, "bbmetrics shell")
	cMuted.Fprintf(out, "%s  |  %d events  |  type 'help' or 'exit'\n\n", cfg.DataDir, events.Snapshot().Len())

	scanner := bufio.NewScanner(in)
	for {
		cPrompt.Fprint(out, "bbmetrics")
		cMuted.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := shellExec(ctx, out, line); quit {
			return nil
		}
	}
	return scanner.Err()
}

// shellExec runs one line and reports whether the session should end.
func shellExec(ctx context.Context, out io.Writer, line string) bool {
	tokens := strings.Fields(line)
	name, args := tokens[0], tokens[1:]

	// Each command sees one snapshot even if a rescan lands meanwhile.
	snap := events.Snapshot()
	var err error
	switch name {
	case "exit", "quit":
		return true
	case "help":
		shellHelp(out)
	case "list":
		printList(out, snap)
	case "scan":
		printScan(out, snap)
	case "rescan":
		err = shellRescan(ctx, out)
	case "loglevel":
		err = shellLogLevel(out, args)
	case "team":
		err = printTeam(out, snap, args)
	case "player":
		who, dates, all := splitNameDates(args)
		if who == "" {
			cError.Fprintln(os.Stderr, "usage: player <name> [YYYY-MM-DD ...|all]")
			return false
		}
		err = printPlayer(out, snap, who, dates, all)
	case "trend":
		who, _, _ := splitNameDates(args)
		err = printTrend(out, snap, who)
	case "pitching":
		who, dates, _ := splitNameDates(args)
		err = printPitching(out, snap, who, dates)
	case "export":
		format, dates, _ := splitNameDates(args)
		if format == "" {
			format = "json"
		}
		var doc *exportFile
		if doc, err = buildExport(snap, dates); err == nil {
			err = writeExport(out, doc, format)
		}
	case "sql":
		if len(args) == 0 {
			cError.Fprintln(os.Stderr, "usage: sql <query>")
			return false
		}
		err = runSQL(out, snap, strings.Join(args, " "))
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
	}
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return false
}

func shellRescan(ctx context.Context, out io.Writer) error {
	snap, err := rescan(ctx)
	if err != nil {
		return err
	}
	cMuted.Fprintf(out, "rescanned: %d files (%d skipped), %d events\n",
		len(snap.Reports()), snap.Skipped(), snap.Len())
	return nil
}

// shellLogLevel prints the log level, or changes it for the rest of the
// session.
func shellLogLevel(out io.Writer, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(out, "log level: %s\n", level.Level())
		return nil
	}
	if err := level.UnmarshalText([]byte(args[0])); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	cMuted.Fprintf(out, "log level set to %s\n", level.Level())
	return nil
}

// splitNameDates separates date tokens from the name tokens around them, so
// names with spaces need no quoting. "all" selects every session.
func splitNameDates(args []string) (name string, dates []string, all bool) {
	var words []string
	for _, a := range args {
		switch {
		case a == "all":
			all = true
		case looksLikeDate(a):
			dates = append(dates, a)
		default:
			words = append(words, a)
		}
	}
	return strings.Join(words, " "), dates, all
}

func looksLikeDate(s string) bool {
	_, err := model.ParseDate(s)
	return err == nil
}

func shellHelp(out io.Writer) {
	fmt.Fprintln(out)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "session dates and players"},
		{"scan", "per-file ingestion report"},
		{"rescan", "reread the data directory"},
		{"loglevel [debug|info|warn|error]", "show or change the log level"},
		{"team [YYYY-MM-DD ...]", "hitting board (default: latest session)"},
		{"player <name> [YYYY-MM-DD ...|all]", "one hitter's card, course grid, trend and history"},
		{"trend [<name>]", "per-session exit speed"},
		{"pitching [<name>] [YYYY-MM-DD ...]", "pitcher board, or one pitcher's pitch mix"},
		{"export [json|yaml] [YYYY-MM-DD ...]", "boards as JSON or YAML"},
		{"sql <query>", "query the events with SQLite"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(out, "  ")
		cCmd.Fprintf(out, "%-38s", r.cmd)
		fmt.Fprintln(out, r.desc)
	}
	fmt.Fprintln(out)
}
