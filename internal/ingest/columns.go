package ingest

import (
	"strings"

	"github.com/pable/go-bb-metrics/internal/model"
)

// field is a canonical event attribute a source column can populate.
type field int

const (
	fieldSubject field = iota
	fieldSubjectLast
	fieldDate
	fieldExitSpeed
	fieldLaunchAngle
	fieldDistance
	fieldDirection
	fieldCourse
	fieldPitchType
	fieldPitchTypeAuto
	fieldRelSpeed
	fieldInducedVertBreak
	fieldHorzBreak
	fieldPlateLocSide
	fieldPlateLocHeight
	fieldPitchCall
)

// columnDef maps source header aliases to a field. Aliases are tried in
// order; the first def that resolves a field wins. Scale converts units
// (0 means 1).
type columnDef struct {
	field   field
	aliases []string
	scale   float64
}

const mphToKmh = 1.609344

var hittingColumns = []columnDef{
	{field: fieldSubject, aliases: []string{"Hitter First Name", "Player", "Batter", "Hitter", "Name"}},
	{field: fieldSubjectLast, aliases: []string{"Hitter Last Name"}},
	{field: fieldDate, aliases: []string{"Hit Created At", "Date", "Created At", "Timestamp"}},
	{field: fieldExitSpeed, aliases: []string{"ExitSpeed (KMH)", "Exit Speed (KMH)", "ExitSpeed", "Speed"}},
	{field: fieldExitSpeed, aliases: []string{"ExitSpeed (MPH)", "Exit Speed (MPH)"}, scale: mphToKmh},
	{field: fieldLaunchAngle, aliases: []string{"Angle", "Launch Angle", "LaunchAngle"}},
	{field: fieldDistance, aliases: []string{"Distance (Meters)", "Distance", "Dist"}},
	{field: fieldDirection, aliases: []string{"Direction", "Exit Direction"}},
	{field: fieldCourse, aliases: []string{"Course", "Zone", "Strike Zone"}},
}

var pitchingColumns = []columnDef{
	{field: fieldSubject, aliases: []string{"Pitcher", "Player"}},
	{field: fieldDate, aliases: []string{"Date", "UTCDate"}},
	{field: fieldPitchType, aliases: []string{"TaggedPitchType", "PitchType"}},
	{field: fieldPitchTypeAuto, aliases: []string{"AutoPitchType"}},
	{field: fieldRelSpeed, aliases: []string{"RelSpeed"}},
	{field: fieldInducedVertBreak, aliases: []string{"InducedVertBreak"}},
	{field: fieldHorzBreak, aliases: []string{"HorzBreak"}},
	{field: fieldPlateLocSide, aliases: []string{"PlateLocSide"}},
	{field: fieldPlateLocHeight, aliases: []string{"PlateLocHeight"}},
	{field: fieldPitchCall, aliases: []string{"PitchCall"}},
}

// pitchingMarkers identify a pitching export regardless of its other columns.
var pitchingMarkers = []string{"PitchCall", "RelSpeed", "Pitcher", "TaggedPitchType"}

// binding locates a resolved field in a table.
type binding struct {
	index int
	scale float64
}

// layout is the resolved column mapping of one table.
type layout map[field]binding

func (l layout) has(f field) bool {
	_, ok := l[f]
	return ok
}

func (l layout) text(row []string, f field) string {
	b, ok := l[f]
	if !ok {
		return ""
	}
	return cell(row, b.index)
}

func (l layout) number(row []string, f field) model.Metric {
	b, ok := l[f]
	if !ok {
		return model.None
	}
	v, ok := parseNumber(cell(row, b.index))
	if !ok {
		return model.None
	}
	if b.scale != 0 {
		v *= b.scale
	}
	return model.Some(v)
}

func columnsFor(kind model.Kind) []columnDef {
	if kind == model.KindPitching {
		return pitchingColumns
	}
	return hittingColumns
}

// resolve binds each field to the header column that names it. Exact
// (whitespace-trimmed) matches are preferred over case-insensitive ones.
func resolve(header []string, defs []columnDef) layout {
	l := make(layout)
	for _, def := range defs {
		if l.has(def.field) {
			continue
		}
		for _, alias := range def.aliases {
			if i := headerIndex(header, alias); i >= 0 {
				l[def.field] = binding{index: i, scale: def.scale}
				break
			}
		}
	}
	return l
}

func headerIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// DetectKind guesses the export kind from its header.
func DetectKind(header []string) model.Kind {
	h := trimHeader(header)
	for _, m := range pitchingMarkers {
		if headerIndex(h, m) >= 0 {
			return model.KindPitching
		}
	}
	return model.KindHitting
}

// recognizes reports whether header names any known column.
func recognizes(header []string) bool {
	return len(resolve(header, hittingColumns)) > 0 || len(resolve(header, pitchingColumns)) > 0
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return out
}
