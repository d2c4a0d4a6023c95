package model

import (
	"fmt"
	"time"
)

// Kind identifies which tracking export an event came from.
type Kind int

const (
	KindUnknown  Kind = 0
	KindHitting  Kind = 1
	KindPitching Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindHitting:
		return "hitting"
	case KindPitching:
		return "pitching"
	default:
		return "?"
	}
}

// UnknownSubject is used when a row carries no player name.
const UnknownSubject = "Unknown"

// UndefinedPitchType is used when a pitching row carries no pitch type.
const UndefinedPitchType = "Undefined"

// ---- Dates ----

// Date is a calendar date. All events on one date belong to one session.
type Date struct {
	t time.Time
}

// DateOf truncates t to its calendar date, keeping t's wall-clock day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewDate builds a Date from its parts.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool       { return d.t.IsZero() }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Time() time.Time    { return d.t }
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }
func (d Date) String() string {
	if d.t.IsZero() {
		return "—"
	}
	return d.t.Format(time.DateOnly)
}

// ---- Optional values ----

// Metric is a number that may be undefined. Undefined is the "no data" state
// for missing cells, empty groups, zero-denominator rates and comparisons
// without a reference; it is never rendered as zero.
type Metric struct {
	Value float64
	OK    bool
}

// None is the undefined Metric.
var None = Metric{}

// Some wraps a defined value.
func Some(v float64) Metric { return Metric{Value: v, OK: true} }

// Format renders the value with the given fmt verb, or "—" when undefined.
func (m Metric) Format(verb string) string {
	if !m.OK {
		return "—"
	}
	return fmt.Sprintf(verb, m.Value)
}

// Positive reports whether the value is defined and strictly greater than zero.
func (m Metric) Positive() bool { return m.OK && m.Value > 0 }

// ---- Events ----

// Event is one batted ball (hitting) or one pitch (pitching). Events are
// never mutated after normalization; derived flags live in classify.
type Event struct {
	Kind    Kind
	Subject string
	Date    Date
	Source  string // file the row came from

	// Hitting
	ExitSpeed   Metric // km/h
	LaunchAngle Metric // degrees
	Distance    Metric // meters
	Direction   Metric // degrees
	Course      int    // 1..9 row-major over a 3x3 zone grid; 0 = unknown

	// Pitching
	PitchType        string
	RelSpeed         Metric
	InducedVertBreak Metric
	HorzBreak        Metric
	PlateLocSide     Metric
	PlateLocHeight   Metric
	PitchCall        string
}

// ---- Pitch type ordering ----

// PitchTypeOrder is the preferred display order for pitch types.
var PitchTypeOrder = []string{
	"Fastball",
	"Slider",
	"Cutter",
	"Curveball",
	"Splitter",
	"ChangeUp",
	"OneSeam",
	"TwoSeamFastball",
}

// PitchTypeRank returns t's index in PitchTypeOrder, or -1 when t is not a
// preferred type.
func PitchTypeRank(t string) int {
	for i, p := range PitchTypeOrder {
		if p == t {
			return i
		}
	}
	return -1
}
