package compare

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pable/go-bb-metrics/internal/aggregator"
	"github.com/pable/go-bb-metrics/internal/model"
	"github.com/pable/go-bb-metrics/internal/store"
)

var (
	d1 = model.NewDate(2024, time.May, 1)
	d2 = model.NewDate(2024, time.May, 8)
	d3 = model.NewDate(2024, time.May, 15)
)

func row(key string, v model.Metric) aggregator.Row {
	return aggregator.Row{Key: key, Count: 1, Values: map[string]model.Metric{"m": v}}
}

// ---- Reference date tests ----

func TestReferenceDate_MostRecentUnselected(t *testing.T) {
	ref, ok := ReferenceDate([]model.Date{d1, d2, d3}, []model.Date{d3})
	if !ok || !ref.Equal(d2) {
		t.Errorf("want %s, got %s (ok=%v)", d2, ref, ok)
	}
}

func TestReferenceDate_SkipsSelectedDates(t *testing.T) {
	// d2 is part of the selection, so the baseline falls back to d1.
	ref, ok := ReferenceDate([]model.Date{d1, d2, d3}, []model.Date{d2, d3})
	if !ok || !ref.Equal(d1) {
		t.Errorf("want %s, got %s (ok=%v)", d1, ref, ok)
	}
}

func TestReferenceDate_NonContiguousSelection(t *testing.T) {
	// Gap between selected dates: d2 is earlier than the latest selection
	// and unselected.
	ref, ok := ReferenceDate([]model.Date{d1, d2, d3}, []model.Date{d1, d3})
	if !ok || !ref.Equal(d2) {
		t.Errorf("want %s, got %s (ok=%v)", d2, ref, ok)
	}
}

func TestReferenceDate_NoHistory(t *testing.T) {
	if _, ok := ReferenceDate([]model.Date{d1}, []model.Date{d1}); ok {
		t.Error("first-ever session should have no reference")
	}
	if _, ok := ReferenceDate([]model.Date{d1, d2}, nil); ok {
		t.Error("empty selection should have no reference")
	}
	// Later dates never serve as a baseline.
	if _, ok := ReferenceDate([]model.Date{d2, d3}, []model.Date{d1}); ok {
		t.Error("dates after the selection must not be used")
	}
}

// ---- Compare tests ----

func TestCompare_MissingReferenceIsUndefined(t *testing.T) {
	cur := []aggregator.Row{row("Ito", model.Some(150)), row("Abe", model.Some(120))}
	ref := []aggregator.Row{row("Ito", model.Some(120))}

	deltas := Compare(cur, ref, "m")
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(deltas))
	}
	if got := deltas[0].Pct; !got.OK || math.Abs(got.Value-125) > 1e-9 {
		t.Errorf("Ito: want 125%%, got %+v", got)
	}
	if deltas[1].Pct.OK || deltas[1].Reference.OK {
		t.Errorf("Abe has no reference row, want no data, got %+v", deltas[1])
	}
}

func TestPercent_ZeroReference(t *testing.T) {
	if Percent(model.Some(10), model.Some(0)).OK {
		t.Error("zero reference should be undefined")
	}
	if Percent(model.None, model.Some(10)).OK {
		t.Error("undefined current should be undefined")
	}
}

// ---- End-to-end ----

func TestEndToEnd_TwoSources(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	if err := os.WriteFile(a, []byte("Player,Date,Speed,Angle\nIto,2024-05-01,145,15\nIto,2024-05-01,0,20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("Player,Date,Speed,Angle\nIto,2024-05-08,150,25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap, err := store.New(nil).Rebuild(context.Background(), []string{a, b})
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if snap.Len() != 2 {
		t.Fatalf("expected 2 events (zero speed dropped), got %d", snap.Len())
	}

	current := []model.Date{d2}
	board := aggregator.HittingBoard(snap.Filter(store.OnDates(current...)))
	if len(board) != 1 {
		t.Fatalf("expected one player, got %d", len(board))
	}
	ito := board[0]
	if ito.Get(aggregator.MeanSpeed).Value != 150 || ito.Get(aggregator.MaxSpeed).Value != 150 {
		t.Errorf("mean/max: want 150/150, got %+v/%+v", ito.Get(aggregator.MeanSpeed), ito.Get(aggregator.MaxSpeed))
	}
	if got := ito.Get(aggregator.BarrelRate); got.Value != 1 {
		t.Errorf("barrel rate: want 100%%, got %+v", got)
	}

	res := Against(snap.Filter(store.OfKind(model.KindHitting)), current, aggregator.HittingBoard, aggregator.MeanSpeed)
	if !res.HasReference || !res.Reference.Equal(d1) {
		t.Fatalf("reference: want %s, got %s (has=%v)", d1, res.Reference, res.HasReference)
	}
	d, ok := res.ByKey()["Ito"]
	if !ok {
		t.Fatal("no delta for Ito")
	}
	if d.Reference.Value != 145 {
		t.Errorf("reference mean: want 145, got %+v", d.Reference)
	}
	if math.Abs(d.Pct.Value-150.0/145*100) > 1e-9 || d.Pct.Format("%.0f") != "103" {
		t.Errorf("delta: want ~103%%, got %+v", d.Pct)
	}
}
