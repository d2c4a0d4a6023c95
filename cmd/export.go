package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pable/go-bb-metrics/internal/aggregator"
	"github.com/pable/go-bb-metrics/internal/compare"
	"github.com/pable/go-bb-metrics/internal/model"
	"github.com/pable/go-bb-metrics/internal/store"
)

var (
	exportDates  []string
	exportOut    string
	exportFormat string
)

// exportFile is the top-level export document. Undefined metrics are null.
// Each board's delta_pct is against that board's own reference date, which
// is omitted when the board has no earlier session.
type exportFile struct {
	ScanID                string          `json:"scan_id" yaml:"scan_id"`
	ScannedAt             string          `json:"scanned_at" yaml:"scanned_at"`
	GeneratedAt           string          `json:"generated_at" yaml:"generated_at"`
	Dates                 []string        `json:"dates" yaml:"dates"`
	HittingReferenceDate  string          `json:"hitting_reference_date,omitempty" yaml:"hitting_reference_date,omitempty"`
	PitchingReferenceDate string          `json:"pitching_reference_date,omitempty" yaml:"pitching_reference_date,omitempty"`
	Hitters               []exportHitter  `json:"hitters" yaml:"hitters"`
	Pitchers              []exportPitcher `json:"pitchers" yaml:"pitchers"`
	Sources               []exportSource  `json:"sources" yaml:"sources"`
}

type exportHitter struct {
	Player      string   `json:"player" yaml:"player"`
	Count       int      `json:"count" yaml:"count"`
	MaxSpeed    *float64 `json:"max_speed" yaml:"max_speed"`
	MeanSpeed   *float64 `json:"mean_speed" yaml:"mean_speed"`
	MeanAngle   *float64 `json:"mean_angle" yaml:"mean_angle"`
	MaxDistance *float64 `json:"max_distance" yaml:"max_distance"`
	BarrelRate  *float64 `json:"barrel_rate" yaml:"barrel_rate"`
	RefMean     *float64 `json:"reference_mean_speed" yaml:"reference_mean_speed"`
	DeltaPct    *float64 `json:"delta_pct" yaml:"delta_pct"`
}

type exportPitcher struct {
	Pitcher    string   `json:"pitcher" yaml:"pitcher"`
	Count      int      `json:"count" yaml:"count"`
	MaxVelo    *float64 `json:"max_velo" yaml:"max_velo"`
	MeanVelo   *float64 `json:"mean_velo" yaml:"mean_velo"`
	StrikeRate *float64 `json:"strike_rate" yaml:"strike_rate"`
	WhiffRate  *float64 `json:"whiff_rate" yaml:"whiff_rate"`
	ZoneRate   *float64 `json:"zone_rate" yaml:"zone_rate"`
	DeltaPct   *float64 `json:"delta_pct" yaml:"delta_pct"`
}

type exportSource struct {
	Path     string `json:"path" yaml:"path"`
	Kind     string `json:"kind" yaml:"kind"`
	Admitted int    `json:"admitted" yaml:"admitted"`
	Rejected int    `json:"rejected" yaml:"rejected"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the hitting and pitching boards as JSON or YAML",
	Long: `Write the hitting board and pitcher board for the selected sessions, with
comparisons against the most recent earlier session of each board, as JSON
(default) or YAML. hitting_reference_date and pitching_reference_date name
the session each board's delta_pct is measured against. Metrics without data
are null; rates are fractions in [0, 1].

Example:
  bbmetrics export --date 2024-05-08 --out may8.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringArrayVar(&exportDates, "date", nil, "session date YYYY-MM-DD (repeatable, default: latest)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "json or yaml")
}

func runExport(cmd *cobra.Command, _ []string) error {
	snap := events.Snapshot()
	if !hasData(cmd.ErrOrStderr(), snap) {
		return nil
	}
	doc, err := buildExport(snap, exportDates)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return writeExport(cmd.OutOrStdout(), doc, exportFormat)
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := writeExport(f, doc, exportFormat); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", exportOut, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exportOut)
	return nil
}

func buildExport(snap *store.Snapshot, rawDates []string) (*exportFile, error) {
	dates, err := selectDates(rawDates, snap.Dates())
	if err != nil {
		return nil, err
	}
	doc := &exportFile{
		ScanID:      snap.ID(),
		ScannedAt:   snap.BuiltAt().UTC().Format(time.RFC3339),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Dates:       dateStrings(dates),
		Hitters:     []exportHitter{},
		Pitchers:    []exportPitcher{},
	}

	hits := snap.Filter(store.OfKind(model.KindHitting))
	hitRes := compare.Against(hits, dates, aggregator.HittingBoard, aggregator.MeanSpeed)
	if hitRes.HasReference {
		doc.HittingReferenceDate = hitRes.Reference.String()
	}
	hitDeltas := hitRes.ByKey()
	for _, r := range aggregator.HittingBoard(store.Apply(hits, store.OnDates(dates...))) {
		d := hitDeltas[r.Key]
		doc.Hitters = append(doc.Hitters, exportHitter{
			Player:      r.Key,
			Count:       r.Count,
			MaxSpeed:    jsonMetric(r.Get(aggregator.MaxSpeed)),
			MeanSpeed:   jsonMetric(r.Get(aggregator.MeanSpeed)),
			MeanAngle:   jsonMetric(r.Get(aggregator.MeanAngle)),
			MaxDistance: jsonMetric(r.Get(aggregator.MaxDistance)),
			BarrelRate:  jsonMetric(r.Get(aggregator.BarrelRate)),
			RefMean:     jsonMetric(d.Reference),
			DeltaPct:    jsonMetric(d.Pct),
		})
	}

	pitches := snap.Filter(store.OfKind(model.KindPitching))
	pitchRes := compare.Against(pitches, dates, aggregator.PitcherBoard, aggregator.MaxVelo)
	if pitchRes.HasReference {
		doc.PitchingReferenceDate = pitchRes.Reference.String()
	}
	pitchDeltas := pitchRes.ByKey()
	for _, r := range aggregator.PitcherBoard(store.Apply(pitches, store.OnDates(dates...))) {
		doc.Pitchers = append(doc.Pitchers, exportPitcher{
			Pitcher:    r.Key,
			Count:      r.Count,
			MaxVelo:    jsonMetric(r.Get(aggregator.MaxVelo)),
			MeanVelo:   jsonMetric(r.Get(aggregator.MeanVelo)),
			StrikeRate: jsonMetric(r.Get(aggregator.StrikeRate)),
			WhiffRate:  jsonMetric(r.Get(aggregator.WhiffRate)),
			ZoneRate:   jsonMetric(r.Get(aggregator.ZoneRate)),
			DeltaPct:   jsonMetric(pitchDeltas[r.Key].Pct),
		})
	}

	for _, rep := range snap.Reports() {
		src := exportSource{
			Path:     rep.Path,
			Kind:     rep.Kind.String(),
			Admitted: rep.Stats.Admitted,
			Rejected: rep.Stats.Rejected,
		}
		if rep.Err != nil {
			src.Error = rep.Err.Error()
		}
		doc.Sources = append(doc.Sources, src)
	}
	return doc, nil
}

func writeExport(w io.Writer, doc *exportFile, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q: want json or yaml", format)
	}
	return nil
}

func dateStrings(dates []model.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

// jsonMetric maps an undefined metric to null.
func jsonMetric(m model.Metric) *float64 {
	if !m.OK {
		return nil
	}
	v := roundTo2dp(m.Value)
	return &v
}

func roundTo2dp(v float64) float64 {
	return math.Round(v*100) / 100
}
