package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-bb-metrics/internal/model"
)

// Key extracts the grouping value of an event.
type Key func(model.Event) string

// Field extracts a numeric field of an event.
type Field func(model.Event) model.Metric

// Reducer folds the defined values of one field. It is never called with an
// empty slice; groups without a single defined value get None.
type Reducer func(values []float64) float64

// Agg is one (field, reducer) output column.
type Agg struct {
	Name   string
	Field  Field
	Reduce Reducer
}

// Rate is count(Hit)/count(Of) inside a group. A nil Of counts every event.
// Hit is only evaluated on events that pass Of.
type Rate struct {
	Name string
	Hit  func(model.Event) bool
	Of   func(model.Event) bool
}

// Row is one summary row: a group value, its sample count and named metrics.
type Row struct {
	Key    string
	Count  int
	Values map[string]model.Metric
}

// CountColumn addresses Row.Count through Get and RankBy.
const CountColumn = "count"

// Get returns the named metric, or None when the row does not carry it.
func (r Row) Get(name string) model.Metric {
	if name == CountColumn {
		return model.Some(float64(r.Count))
	}
	return r.Values[name]
}

// ---- Reducers ----

func Mean(vs []float64) float64 {
	return Sum(vs) / float64(len(vs))
}

func Max(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}

func Min(vs []float64) float64 {
	m := math.Inf(1)
	for _, v := range vs {
		m = math.Min(m, v)
	}
	return m
}

func Sum(vs []float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}

// Count is the number of defined values, as opposed to Row.Count which
// counts events.
func Count(vs []float64) float64 { return float64(len(vs)) }

// ---- Grouping ----

// GroupBy produces one Row per distinct key value present in events, in
// first-appearance order. Empty input yields no rows.
func GroupBy(events []model.Event, key Key, aggs []Agg, rates []Rate) []Row {
	type group struct {
		events []model.Event
	}
	var order []string
	groups := make(map[string]*group)
	for _, e := range events {
		k := key(e)
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}
		g.events = append(g.events, e)
	}

	rows := make([]Row, 0, len(order))
	for _, k := range order {
		g := groups[k]
		row := Row{
			Key:    k,
			Count:  len(g.events),
			Values: make(map[string]model.Metric, len(aggs)+len(rates)),
		}
		for _, a := range aggs {
			row.Values[a.Name] = reduce(g.events, a)
		}
		for _, r := range rates {
			row.Values[r.Name] = rate(g.events, r)
		}
		rows = append(rows, row)
	}
	return rows
}

func reduce(events []model.Event, a Agg) model.Metric {
	var vs []float64
	for _, e := range events {
		if m := a.Field(e); m.OK {
			vs = append(vs, m.Value)
		}
	}
	if len(vs) == 0 {
		return model.None
	}
	return model.Some(a.Reduce(vs))
}

func rate(events []model.Event, r Rate) model.Metric {
	var hit, of int
	for _, e := range events {
		if r.Of != nil && !r.Of(e) {
			continue
		}
		of++
		if r.Hit(e) {
			hit++
		}
	}
	return Ratio(hit, of)
}

// Ratio is num/den, or None when den is zero.
func Ratio(num, den int) model.Metric {
	if den == 0 {
		return model.None
	}
	return model.Some(float64(num) / float64(den))
}

// ---- Ordering ----

// RankBy returns rows sorted descending by the named metric. Undefined
// metrics sort last; ties keep their input order.
func RankBy(rows []Row, name string) []Row {
	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Get(name), out[j].Get(name)
		if a.OK != b.OK {
			return a.OK
		}
		return a.OK && a.Value > b.Value
	})
	return out
}

// OrderByCategory sorts rows by the category rank of their keys. Keys with
// a negative rank are not categorized and follow in input order.
func OrderByCategory(rows []Row, rank func(string) int) []Row {
	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Key), rank(out[j].Key)
		switch {
		case ri >= 0 && rj >= 0:
			return ri < rj
		default:
			return ri >= 0 && rj < 0
		}
	})
	return out
}
