package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-bb-metrics/internal/aggregator"
	"github.com/pable/go-bb-metrics/internal/compare"
	"github.com/pable/go-bb-metrics/internal/ingest"
	"github.com/pable/go-bb-metrics/internal/model"
)

// NoDataHint is printed instead of any table when nothing was ingested.
const NoDataHint = "No data: put CSV or XLSX exports under the data directory (--data) and try again."

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintNoData prints the single "provide input data" hint.
func PrintNoData(w io.Writer) {
	fmt.Fprintln(w, NoDataHint)
}

// rate renders a 0..1 fraction as a whole percentage.
func rate(m model.Metric) string {
	if !m.OK {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", m.Value*100)
}

// pct renders an already-scaled percentage.
func pct(m model.Metric) string {
	return m.Format("%.1f%%")
}

func deltaHeader(res compare.Result) string {
	return "Δ% vs " + res.Reference.String()
}

func printNoReference(w io.Writer, res compare.Result) {
	if !res.HasReference {
		fmt.Fprintln(w, "(no earlier session to compare against)")
	}
}

// sampleFlag grades how far a rate can be trusted at n samples.
func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// wilsonCI computes the 95% Wilson score interval for hits out of n as
// fractions in [0, 1].
func wilsonCI(hits, n int) (lo, hi float64) {
	if n == 0 {
		return 0, 1
	}
	z := 1.96
	p := float64(hits) / float64(n)
	nf := float64(n)
	denom := 1 + z*z/nf
	center := (p + z*z/(2*nf)) / denom
	half := z * math.Sqrt(p*(1-p)/nf+z*z/(4*nf*nf)) / denom
	return math.Max(0, center-half), math.Min(1, center+half)
}

// ---- Ingestion ----

// PrintScanReport prints one line per source file.
func PrintScanReport(w io.Writer, reports []ingest.SourceReport) {
	table := newTable(w)
	table.Header("FILE", "FORMAT", "KIND", "ROWS", "ADMITTED", "REJECTED", "NO_DATE", "ERROR")
	var rows, admitted, skipped int
	for _, r := range reports {
		errStr := ""
		if r.Err != nil {
			errStr = r.Err.Error()
			skipped++
		}
		rows += r.Stats.Rows
		admitted += r.Stats.Admitted
		table.Append(
			r.Path,
			r.Format.String(),
			r.Kind.String(),
			strconv.Itoa(r.Stats.Rows),
			strconv.Itoa(r.Stats.Admitted),
			strconv.Itoa(r.Stats.Rejected),
			strconv.Itoa(r.Stats.NoDate),
			errStr,
		)
	}
	table.Render()
	fmt.Fprintf(w, "\n%d files (%d skipped), %d rows, %d events\n", len(reports), skipped, rows, admitted)
}

// Session is one row of the session list.
type Session struct {
	Date     model.Date
	Hits     int
	Pitches  int
	Hitters  int
	Pitchers int
}

// PrintSessions prints the session dates, newest first as given.
func PrintSessions(w io.Writer, sessions []Session) {
	table := newTable(w)
	table.Header("DATE", "HITS", "HITTERS", "PITCHES", "PITCHERS")
	for _, s := range sessions {
		table.Append(
			s.Date.String(),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Hitters),
			strconv.Itoa(s.Pitches),
			strconv.Itoa(s.Pitchers),
		)
	}
	table.Render()
}

// PrintSubjects prints a labelled, comma separated list of names.
func PrintSubjects(w io.Writer, label string, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(w, "%s: —\n", label)
		return
	}
	fmt.Fprintf(w, "%s (%d): %s\n", label, len(names), strings.Join(names, ", "))
}

// ---- Hitting ----

// PrintHittingBoard prints the team board. The Δ% column compares mean exit
// speed against the reference session when there is one.
func PrintHittingBoard(w io.Writer, rows []aggregator.Row, res compare.Result) {
	header := []any{"#", "PLAYER", "N", "MAX", "MEAN", "ANGLE", "MAX_DIST", "BARREL%"}
	if res.HasReference {
		header = append(header, deltaHeader(res))
	}
	table := newTable(w)
	table.Header(header...)

	deltas := res.ByKey()
	for i, r := range rows {
		line := []any{
			strconv.Itoa(i + 1),
			r.Key,
			strconv.Itoa(r.Count),
			r.Get(aggregator.MaxSpeed).Format("%.1f"),
			r.Get(aggregator.MeanSpeed).Format("%.1f"),
			r.Get(aggregator.MeanAngle).Format("%.1f°"),
			r.Get(aggregator.MaxDistance).Format("%.1f"),
			rate(r.Get(aggregator.BarrelRate)),
		}
		if res.HasReference {
			line = append(line, pct(deltas[r.Key].Pct))
		}
		table.Append(line...)
	}
	table.Render()
	printNoReference(w, res)
}

// PrintPlayerCard prints one player's headline numbers for the selection.
func PrintPlayerCard(w io.Writer, name, selection string, r aggregator.Row, res compare.Result) {
	fmt.Fprintf(w, "\nPlayer: %s  |  Sessions: %s  |  Batted balls: %d\n\n", name, selection, r.Count)

	barrels := r.Get(aggregator.BarrelRate)
	ci := "—"
	if barrels.OK {
		lo, hi := wilsonCI(int(math.Round(barrels.Value*float64(r.Count))), r.Count)
		ci = fmt.Sprintf("%.0f–%.0f%%", lo*100, hi*100)
	}

	header := []any{"MAX", "MEAN", "ANGLE", "MAX_DIST", "BARREL%", "95% CI", "SAMPLE"}
	line := []any{
		r.Get(aggregator.MaxSpeed).Format("%.1f"),
		r.Get(aggregator.MeanSpeed).Format("%.1f"),
		r.Get(aggregator.MeanAngle).Format("%.1f°"),
		r.Get(aggregator.MaxDistance).Format("%.1f"),
		rate(barrels),
		ci,
		sampleFlag(r.Count),
	}
	if res.HasReference {
		header = append(header, deltaHeader(res))
		line = append(line, pct(res.ByKey()[name].Pct))
	}
	table := newTable(w)
	table.Header(header...)
	table.Append(line...)
	table.Render()
	printNoReference(w, res)
}

// PrintCourseGrid prints the 3x3 course matrix as "mean (n)" cells, top row
// first as seen from the catcher.
func PrintCourseGrid(w io.Writer, g aggregator.Grid) {
	table := newTable(w)
	table.Header("", "INSIDE", "MIDDLE", "OUTSIDE")
	labels := [3]string{"HIGH", "MID", "LOW"}
	for r := 0; r < 3; r++ {
		line := []any{labels[r]}
		for c := 0; c < 3; c++ {
			cell := "—"
			if g.Mean[r][c].OK {
				cell = fmt.Sprintf("%.1f (%d)", g.Mean[r][c].Value, g.Count[r][c])
			}
			line = append(line, cell)
		}
		table.Append(line...)
	}
	table.Render()
}

// PrintTrend prints per-session exit speed over time.
func PrintTrend(w io.Writer, rows []aggregator.Row) {
	table := newTable(w)
	table.Header("DATE", "N", "MEAN", "MAX", "BARREL%")
	for _, r := range rows {
		table.Append(
			r.Key,
			strconv.Itoa(r.Count),
			r.Get(aggregator.MeanSpeed).Format("%.1f"),
			r.Get(aggregator.MaxSpeed).Format("%.1f"),
			rate(r.Get(aggregator.BarrelRate)),
		)
	}
	table.Render()
}

// PrintHistory prints batted balls in the given order. limit <= 0 prints all.
func PrintHistory(w io.Writer, events []model.Event, limit int) {
	table := newTable(w)
	table.Header("DATE", "SPEED", "ANGLE", "DIST", "COURSE")
	for i, e := range events {
		if limit > 0 && i >= limit {
			break
		}
		course := "—"
		if e.Course > 0 {
			course = strconv.Itoa(e.Course)
		}
		table.Append(
			e.Date.String(),
			e.ExitSpeed.Format("%.1f"),
			e.LaunchAngle.Format("%.1f°"),
			e.Distance.Format("%.1f"),
			course,
		)
	}
	table.Render()
	if limit > 0 && len(events) > limit {
		fmt.Fprintf(w, "(%d more)\n", len(events)-limit)
	}
}

// ---- Pitching ----

// PrintPitchMix prints the pitch-type breakdown. The Δ% column compares mean
// release speed against the reference session.
func PrintPitchMix(w io.Writer, rows []aggregator.Row, res compare.Result) {
	header := []any{"TYPE", "N", "USAGE", "VELO", "MIN", "MAX", "IVB", "HB", "STRIKE%", "WHIFF%", "ZONE%"}
	if res.HasReference {
		header = append(header, deltaHeader(res))
	}
	table := newTable(w)
	table.Header(header...)

	deltas := res.ByKey()
	for _, r := range rows {
		line := []any{
			r.Key,
			strconv.Itoa(r.Count),
			rate(r.Get(aggregator.Usage)),
			r.Get(aggregator.MeanVelo).Format("%.1f"),
			r.Get(aggregator.MinVelo).Format("%.1f"),
			r.Get(aggregator.MaxVelo).Format("%.1f"),
			r.Get(aggregator.MeanIVB).Format("%.1f"),
			r.Get(aggregator.MeanHB).Format("%.1f"),
			rate(r.Get(aggregator.StrikeRate)),
			rate(r.Get(aggregator.WhiffRate)),
			rate(r.Get(aggregator.ZoneRate)),
		}
		if res.HasReference {
			line = append(line, pct(deltas[r.Key].Pct))
		}
		table.Append(line...)
	}
	table.Render()
	printNoReference(w, res)
}

// PrintPitcherBoard prints one row per pitcher. The Δ% column compares max
// release speed against the reference session.
func PrintPitcherBoard(w io.Writer, rows []aggregator.Row, res compare.Result) {
	header := []any{"#", "PITCHER", "N", "MAX", "VELO", "STRIKE%", "WHIFF%", "ZONE%"}
	if res.HasReference {
		header = append(header, deltaHeader(res))
	}
	table := newTable(w)
	table.Header(header...)

	deltas := res.ByKey()
	for i, r := range rows {
		line := []any{
			strconv.Itoa(i + 1),
			r.Key,
			strconv.Itoa(r.Count),
			r.Get(aggregator.MaxVelo).Format("%.1f"),
			r.Get(aggregator.MeanVelo).Format("%.1f"),
			rate(r.Get(aggregator.StrikeRate)),
			rate(r.Get(aggregator.WhiffRate)),
			rate(r.Get(aggregator.ZoneRate)),
		}
		if res.HasReference {
			line = append(line, pct(deltas[r.Key].Pct))
		}
		table.Append(line...)
	}
	table.Render()
	printNoReference(w, res)
}

// PrintQueryResult renders the columns and string rows of an ad-hoc query.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	table.Header(anySlice(cols)...)
	for _, row := range rows {
		table.Append(anySlice(row)...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
