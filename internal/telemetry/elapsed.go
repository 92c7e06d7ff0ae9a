package telemetry

import (
	"fmt"
	"math"
)

const (
	Minute = 60
	Hour   = 60 * Minute
	Day    = 24 * Hour
	// Year is the 365-day year used by the day/hour/minute breakdown.
	Year = 365 * Day
	// CalendarYear approximates the tropical year (365.2422 days) for the
	// coarse year counter only. It drifts from Year by about 6 h per year.
	CalendarYear = 31556926
)

// Elapsed is simulated time split into HUD units.
type Elapsed struct {
	Years   int64
	Days    int64
	Hours   int64
	Minutes int64
	Seconds float64
}

// Breakdown splits seconds into years of 365 days, days, hours, minutes and
// the remaining (possibly fractional) seconds. Negative input counts as zero.
func Breakdown(seconds float64) Elapsed {
	if seconds <= 0 || math.IsNaN(seconds) {
		return Elapsed{}
	}
	whole := math.Floor(seconds)
	s := int64(whole)

	var e Elapsed
	e.Years, s = s/Year, s%Year
	e.Days, s = s/Day, s%Day
	e.Hours, s = s/Hour, s%Hour
	e.Minutes, s = s/Minute, s%Minute
	e.Seconds = float64(s) + (seconds - whole)
	return e
}

// CalendarYears is the coarse year counter. It can disagree with
// Breakdown(seconds).Years around year boundaries.
func CalendarYears(seconds float64) float64 {
	return seconds / CalendarYear
}

func (e Elapsed) String() string {
	return fmt.Sprintf("%d a %03d d %02d h %02d m %02d s",
		e.Years, e.Days, e.Hours, e.Minutes, int64(e.Seconds))
}
