// Package classify derives per-event flags (barrel, strike, swing, whiff)
// from normalized events. All functions are pure.
package classify

import (
	"math"
	"strings"

	"github.com/pable/go-bb-metrics/internal/model"
)

// Barrel thresholds. Both angle bounds are inclusive.
const (
	BarrelMinSpeed = 140.0 // km/h
	BarrelMinAngle = 10.0  // degrees
	BarrelMaxAngle = 30.0  // degrees
)

// Strike zone bounds in feet, used by IsInZone.
const (
	zoneHalfWidth = 0.83
	zoneBottom    = 1.5
	zoneTop       = 3.5
)

// Pitch-call substrings, matched case-insensitively. Vendor values are an
// open set; calls matching nothing classify as false.
var (
	strikeCalls = []string{"strike", "foul", "inplay"}
	swingCalls  = []string{"strikeswinging", "foul", "inplay"}
	whiffCalls  = []string{"strikeswinging"}
)

// IsBarrel reports exit_speed >= 140 and 10 <= launch_angle <= 30.
// A missing launch angle is never a barrel.
func IsBarrel(e model.Event) bool {
	if !e.ExitSpeed.OK || !e.LaunchAngle.OK {
		return false
	}
	return e.ExitSpeed.Value >= BarrelMinSpeed &&
		e.LaunchAngle.Value >= BarrelMinAngle &&
		e.LaunchAngle.Value <= BarrelMaxAngle
}

// IsStrike reports whether the pitch call counts as a strike (called,
// swinging, foul or ball in play).
func IsStrike(e model.Event) bool { return callContains(e.PitchCall, strikeCalls) }

// IsSwing reports whether the batter swung.
func IsSwing(e model.Event) bool { return callContains(e.PitchCall, swingCalls) }

// IsWhiff reports a swing and miss.
func IsWhiff(e model.Event) bool { return callContains(e.PitchCall, whiffCalls) }

// IsInZone reports whether the pitch crossed the plate inside the rulebook
// zone. Pitches without a location are outside.
func IsInZone(e model.Event) bool {
	if !e.PlateLocSide.OK || !e.PlateLocHeight.OK {
		return false
	}
	return math.Abs(e.PlateLocSide.Value) <= zoneHalfWidth &&
		e.PlateLocHeight.Value >= zoneBottom &&
		e.PlateLocHeight.Value <= zoneTop
}

// IsHitting and IsPitching are handy as rate denominators.
func IsHitting(e model.Event) bool  { return e.Kind == model.KindHitting }
func IsPitching(e model.Event) bool { return e.Kind == model.KindPitching }

func callContains(call string, needles []string) bool {
	c := strings.ToLower(call)
	if c == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(c, n) {
			return true
		}
	}
	return false
}
