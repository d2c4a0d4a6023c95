package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pable/go-bb-metrics/internal/aggregator"
	"github.com/pable/go-bb-metrics/internal/compare"
	"github.com/pable/go-bb-metrics/internal/ingest"
	"github.com/pable/go-bb-metrics/internal/model"
)

var may1 = model.NewDate(2024, time.May, 1)

func itoRow() aggregator.Row {
	return aggregator.Row{
		Key:   "Ito",
		Count: 1,
		Values: map[string]model.Metric{
			aggregator.MeanSpeed:  model.Some(150),
			aggregator.MaxSpeed:   model.Some(150),
			aggregator.BarrelRate: model.Some(1),
		},
	}
}

func TestPrintHittingBoard_Delta(t *testing.T) {
	res := compare.Result{
		Reference:    may1,
		HasReference: true,
		Deltas:       []compare.Delta{{Key: "Ito", Pct: model.Some(150.0 / 145 * 100)}},
	}
	var buf bytes.Buffer
	PrintHittingBoard(&buf, []aggregator.Row{itoRow()}, res)
	out := buf.String()

	for _, want := range []string{"Ito", "150.0", "100%", "103.4%", "2024-05-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHittingBoard_NoReference(t *testing.T) {
	row := itoRow()
	row.Values[aggregator.MaxDistance] = model.None
	var buf bytes.Buffer
	PrintHittingBoard(&buf, []aggregator.Row{row}, compare.Result{})
	out := buf.String()

	if !strings.Contains(out, "no earlier session") {
		t.Errorf("expected no-reference note:\n%s", out)
	}
	if !strings.Contains(out, "—") {
		t.Errorf("undefined metric should render as —:\n%s", out)
	}
}

func TestPrintCourseGrid(t *testing.T) {
	var g aggregator.Grid
	g.Mean[0][0], g.Count[0][0] = model.Some(130), 2
	g.Mean[1][1], g.Count[1][1] = model.Some(140), 1

	var buf bytes.Buffer
	PrintCourseGrid(&buf, g)
	out := buf.String()

	if !strings.Contains(out, "130.0 (2)") || !strings.Contains(out, "140.0 (1)") {
		t.Errorf("missing populated cells:\n%s", out)
	}
	if n := strings.Count(out, "—"); n != 7 {
		t.Errorf("expected 7 empty cells, got %d:\n%s", n, out)
	}
}

func TestPrintScanReport(t *testing.T) {
	reports := []ingest.SourceReport{
		{Path: "a.csv", Format: ingest.FormatCSV, Kind: model.KindHitting,
			Stats: ingest.Stats{Rows: 2, Admitted: 1, Rejected: 1}},
		{Path: "b.xlsx", Format: ingest.FormatXLSX, Err: errors.New("zip: not a valid zip file")},
	}
	var buf bytes.Buffer
	PrintScanReport(&buf, reports)
	out := buf.String()

	if !strings.Contains(out, "2 files (1 skipped), 2 rows, 1 events") {
		t.Errorf("unexpected summary line:\n%s", out)
	}
}

func TestPrintNoData(t *testing.T) {
	var buf bytes.Buffer
	PrintNoData(&buf)
	if strings.TrimSpace(buf.String()) != NoDataHint {
		t.Errorf("unexpected hint %q", buf.String())
	}
}

func TestWilsonCI(t *testing.T) {
	lo, hi := wilsonCI(0, 0)
	if lo != 0 || hi != 1 {
		t.Errorf("empty sample: want [0, 1], got [%v, %v]", lo, hi)
	}
	lo, hi = wilsonCI(5, 10)
	if lo >= 0.5 || hi <= 0.5 || lo < 0 || hi > 1 {
		t.Errorf("interval [%v, %v] should bracket 0.5", lo, hi)
	}
}

func TestSampleFlag(t *testing.T) {
	cases := map[int]string{0: "VERY_LOW", 19: "VERY_LOW", 20: "LOW", 50: "OK"}
	for n, want := range cases {
		if got := sampleFlag(n); got != want {
			t.Errorf("sampleFlag(%d) = %q, want %q", n, got, want)
		}
	}
}
func TestPrintQueryResult(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"subject", "n"}, [][]string{{"Ito", "2"}, {"Sato", "—"}})
	out := buf.String()
	for _, want := range []string{"Ito", "Sato", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintQueryResult(&buf, []string{"n"}, nil)
	if got := buf.String(); got != "(no rows)\n" {
		t.Errorf("empty result = %q", got)
	}
}
