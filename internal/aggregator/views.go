package aggregator

import (
	"sort"

	"github.com/pable/go-bb-metrics/internal/classify"
	"github.com/pable/go-bb-metrics/internal/model"
)

// Metric names carried by the view rows.
const (
	MeanSpeed   = "mean_speed"
	MaxSpeed    = "max_speed"
	MeanAngle   = "mean_angle"
	MaxDistance = "max_distance"
	BarrelRate  = "barrel_rate"

	Usage      = "usage"
	MeanVelo   = "mean_velo"
	MaxVelo    = "max_velo"
	MinVelo    = "min_velo"
	MeanIVB    = "mean_ivb"
	MeanHB     = "mean_hb"
	StrikeRate = "strike_rate"
	WhiffRate  = "whiff_rate"
	ZoneRate   = "zone_rate"
)

// Keys.
func BySubject(e model.Event) string   { return e.Subject }
func ByPitchType(e model.Event) string { return e.PitchType }
func ByDate(e model.Event) string      { return e.Date.String() }

// Fields.
func exitSpeed(e model.Event) model.Metric   { return e.ExitSpeed }
func launchAngle(e model.Event) model.Metric { return e.LaunchAngle }
func distance(e model.Event) model.Metric    { return e.Distance }
func relSpeed(e model.Event) model.Metric    { return e.RelSpeed }
func ivb(e model.Event) model.Metric         { return e.InducedVertBreak }
func hb(e model.Event) model.Metric          { return e.HorzBreak }

func hasLocation(e model.Event) bool { return e.PlateLocSide.OK && e.PlateLocHeight.OK }

var (
	hittingAggs = []Agg{
		{Name: MeanSpeed, Field: exitSpeed, Reduce: Mean},
		{Name: MaxSpeed, Field: exitSpeed, Reduce: Max},
		{Name: MeanAngle, Field: launchAngle, Reduce: Mean},
		{Name: MaxDistance, Field: distance, Reduce: Max},
	}
	hittingRates = []Rate{
		{Name: BarrelRate, Hit: classify.IsBarrel},
	}

	pitchAggs = []Agg{
		{Name: MeanVelo, Field: relSpeed, Reduce: Mean},
		{Name: MaxVelo, Field: relSpeed, Reduce: Max},
		{Name: MinVelo, Field: relSpeed, Reduce: Min},
		{Name: MeanIVB, Field: ivb, Reduce: Mean},
		{Name: MeanHB, Field: hb, Reduce: Mean},
	}
	pitchRates = []Rate{
		{Name: StrikeRate, Hit: classify.IsStrike},
		{Name: WhiffRate, Hit: classify.IsWhiff, Of: classify.IsSwing},
		{Name: ZoneRate, Hit: classify.IsInZone, Of: hasLocation},
	}
)

func only(events []model.Event, keep func(model.Event) bool) []model.Event {
	var out []model.Event
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// HittingBoard summarizes the hitting events per player, ranked by max exit
// speed.
func HittingBoard(events []model.Event) []Row {
	hits := only(events, classify.IsHitting)
	return RankBy(GroupBy(hits, BySubject, hittingAggs, hittingRates), MaxSpeed)
}

// PitchMix summarizes the pitching events per pitch type in canonical
// pitch-type order. Usage is the share of all pitches in events.
func PitchMix(events []model.Event) []Row {
	pitches := only(events, classify.IsPitching)
	rows := GroupBy(pitches, ByPitchType, pitchAggs, pitchRates)
	for i := range rows {
		rows[i].Values[Usage] = Ratio(rows[i].Count, len(pitches))
	}
	return OrderByCategory(rows, model.PitchTypeRank)
}

// PitcherBoard summarizes the pitching events per pitcher, ranked by max
// release speed.
func PitcherBoard(events []model.Event) []Row {
	pitches := only(events, classify.IsPitching)
	return RankBy(GroupBy(pitches, BySubject, pitchAggs, pitchRates), MaxVelo)
}

// Trend summarizes hitting events per session date, oldest first. Undated
// events are left out.
func Trend(events []model.Event) []Row {
	hits := only(events, func(e model.Event) bool {
		return classify.IsHitting(e) && !e.Date.IsZero()
	})
	rows := GroupBy(hits, ByDate, hittingAggs, hittingRates)
	// ISO dates sort lexically.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// History returns the hitting events newest date first and, within a date,
// fastest first.
func History(events []model.Event) []model.Event {
	hits := only(events, classify.IsHitting)
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ExitSpeed.Value > b.ExitSpeed.Value
	})
	return hits
}

// Grid is the 3x3 strike-zone course matrix. Course n (1..9) maps to
// [(n-1)/3][(n-1)%3].
type Grid struct {
	Mean  [3][3]model.Metric
	Count [3][3]int
}

// Cell returns the mean and sample count of course n.
func (g Grid) Cell(n int) (model.Metric, int) {
	r, c := (n-1)/3, (n-1)%3
	return g.Mean[r][c], g.Count[r][c]
}

// Course builds the mean exit speed per course. Events without a course or
// speed are ignored; empty cells stay None.
func Course(events []model.Event) Grid {
	var g Grid
	var sum [3][3]float64
	for _, e := range events {
		if !classify.IsHitting(e) || e.Course < 1 || e.Course > 9 || !e.ExitSpeed.OK {
			continue
		}
		r, c := (e.Course-1)/3, (e.Course-1)%3
		sum[r][c] += e.ExitSpeed.Value
		g.Count[r][c]++
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if n := g.Count[r][c]; n > 0 {
				g.Mean[r][c] = model.Some(sum[r][c] / float64(n))
			}
		}
	}
	return g
}
