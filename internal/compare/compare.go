// Package compare measures a selection of sessions against the most recent
// earlier session outside the selection.
package compare

import (
	"github.com/pable/go-bb-metrics/internal/aggregator"
	"github.com/pable/go-bb-metrics/internal/model"
	"github.com/pable/go-bb-metrics/internal/store"
)

// Delta compares one group between the current selection and the reference
// session. Pct is Current/Reference*100, undefined when either side is
// missing or the reference is zero.
type Delta struct {
	Key       string
	Current   model.Metric
	Reference model.Metric
	Pct       model.Metric
}

// Result is the outcome of Against. With HasReference false there is no
// earlier session and Deltas is empty.
type Result struct {
	Reference    model.Date
	HasReference bool
	Deltas       []Delta
}

// ByKey indexes the deltas by group key.
func (r Result) ByKey() map[string]Delta {
	m := make(map[string]Delta, len(r.Deltas))
	for _, d := range r.Deltas {
		m[d.Key] = d
	}
	return m
}

// ReferenceDate picks the most recent date in history that is earlier than
// the latest current date and not itself current.
func ReferenceDate(history, current []model.Date) (model.Date, bool) {
	if len(current) == 0 {
		return model.Date{}, false
	}
	selected := make(map[model.Date]struct{}, len(current))
	var latest model.Date
	for _, d := range current {
		selected[d] = struct{}{}
		if d.After(latest) {
			latest = d
		}
	}

	var ref model.Date
	found := false
	for _, d := range history {
		if d.IsZero() || !d.Before(latest) {
			continue
		}
		if _, ok := selected[d]; ok {
			continue
		}
		if !found || d.After(ref) {
			ref, found = d, true
		}
	}
	return ref, found
}

// Compare pairs every current row with the reference row of the same key on
// the named metric. Output follows the order of current.
func Compare(current, reference []aggregator.Row, metric string) []Delta {
	ref := make(map[string]model.Metric, len(reference))
	for _, r := range reference {
		ref[r.Key] = r.Get(metric)
	}
	out := make([]Delta, 0, len(current))
	for _, r := range current {
		d := Delta{Key: r.Key, Current: r.Get(metric), Reference: ref[r.Key]}
		d.Pct = Percent(d.Current, d.Reference)
		out = append(out, d)
	}
	return out
}

// Percent is cur/ref*100, or None when either is undefined or ref is zero.
func Percent(cur, ref model.Metric) model.Metric {
	if !cur.OK || !ref.OK || ref.Value == 0 {
		return model.None
	}
	return model.Some(cur.Value / ref.Value * 100)
}

// Against builds rows for the current dates and for the reference date out
// of history, then compares them on metric. history is usually every event
// of the relevant kind in the snapshot.
func Against(history []model.Event, current []model.Date, build func([]model.Event) []aggregator.Row, metric string) Result {
	ref, ok := ReferenceDate(store.DistinctDates(history), current)
	if !ok {
		return Result{}
	}
	cur := build(store.Apply(history, store.OnDates(current...)))
	prev := build(store.Apply(history, store.OnDates(ref)))
	return Result{Reference: ref, HasReference: true, Deltas: Compare(cur, prev, metric)}
}
