package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Timestamp layouts seen across vendor exports. Year-first slash dates may
// drop leading zeros (2024/5/1); other slash dates are US month-first,
// matching the pitch-tracking exports. Single-digit month and day elements
// also accept two digits.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"2006/1/2 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/06",
	"01-02-06",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// Excel serial day numbers for 1900-01-01 .. 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// parseTimestamp is a best-effort parse; ok is false when nothing matched.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Unformatted workbook cells carry the serial day number.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minExcelSerial && f <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var thousandsComma = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

var nullMarkers = map[string]bool{
	"":     true,
	"-":    true,
	"—":    true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// parseNumber coerces a cell to a float. Empty and non-numeric cells, NaN
// and infinities are not numbers.
func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if nullMarkers[strings.ToLower(raw)] {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, " ", "")

	switch {
	case thousandsComma.MatchString(raw):
		raw = strings.ReplaceAll(raw, ",", "")
	case strings.Contains(raw, ",") && strings.Contains(raw, "."):
		// Whichever separator comes last is the decimal point.
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case strings.Count(raw, ",") == 1:
		raw = strings.Replace(raw, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
