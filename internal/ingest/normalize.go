package ingest

import (
	"math"
	"strings"

	"github.com/pable/go-bb-metrics/internal/model"
)

// Stats counts what happened to the rows of one table.
type Stats struct {
	Rows     int
	Admitted int
	Rejected int
	NoDate   int // admitted rows whose date did not parse
}

// Normalize maps a table's rows onto events of the given kind. Cells that do
// not coerce become undefined; rows failing admission are counted in
// Stats.Rejected and dropped. Output follows row order.
func Normalize(t *Table, kind model.Kind) ([]model.Event, Stats) {
	var stats Stats
	if t == nil {
		return nil, stats
	}
	l := resolve(trimHeader(t.Header), columnsFor(kind))

	events := make([]model.Event, 0, len(t.Rows))
	for _, row := range t.Rows {
		stats.Rows++
		e := model.Event{Kind: kind, Source: t.Name}
		e.Subject = subjectOf(l, row)
		if ts, ok := parseTimestamp(l.text(row, fieldDate)); ok {
			e.Date = model.DateOf(ts)
		}

		switch kind {
		case model.KindPitching:
			fillPitching(&e, l, row)
		default:
			fillHitting(&e, l, row)
		}

		if !admit(e) {
			stats.Rejected++
			continue
		}
		if e.Date.IsZero() {
			stats.NoDate++
		}
		stats.Admitted++
		events = append(events, e)
	}
	return events, stats
}

func subjectOf(l layout, row []string) string {
	name := l.text(row, fieldSubject)
	if last := l.text(row, fieldSubjectLast); last != "" {
		name = strings.TrimSpace(name + " " + last)
	}
	if name == "" {
		return model.UnknownSubject
	}
	return name
}

func fillHitting(e *model.Event, l layout, row []string) {
	e.ExitSpeed = l.number(row, fieldExitSpeed)
	e.LaunchAngle = l.number(row, fieldLaunchAngle)
	e.Distance = l.number(row, fieldDistance)
	e.Direction = l.number(row, fieldDirection)
	if c := l.number(row, fieldCourse); c.OK && c.Value == math.Trunc(c.Value) && c.Value >= 1 && c.Value <= 9 {
		e.Course = int(c.Value)
	}
}

func fillPitching(e *model.Event, l layout, row []string) {
	e.PitchType = l.text(row, fieldPitchType)
	if e.PitchType == "" || strings.EqualFold(e.PitchType, model.UndefinedPitchType) {
		if auto := l.text(row, fieldPitchTypeAuto); auto != "" {
			e.PitchType = auto
		}
	}
	if e.PitchType == "" {
		e.PitchType = model.UndefinedPitchType
	}
	e.RelSpeed = l.number(row, fieldRelSpeed)
	e.InducedVertBreak = l.number(row, fieldInducedVertBreak)
	e.HorzBreak = l.number(row, fieldHorzBreak)
	e.PlateLocSide = l.number(row, fieldPlateLocSide)
	e.PlateLocHeight = l.number(row, fieldPlateLocHeight)
	e.PitchCall = l.text(row, fieldPitchCall)
}

// admit applies the row admission rules. Hitting rows need a positive exit
// speed (zero readings are sensor misses). Pitching rows need at least one
// measurement, and a release speed, when present, must be positive.
func admit(e model.Event) bool {
	switch e.Kind {
	case model.KindHitting:
		return e.ExitSpeed.Positive()
	case model.KindPitching:
		if e.RelSpeed.OK && e.RelSpeed.Value <= 0 {
			return false
		}
		return e.RelSpeed.OK || e.InducedVertBreak.OK || e.HorzBreak.OK ||
			e.PlateLocSide.OK || e.PlateLocHeight.OK
	default:
		return false
	}
}
