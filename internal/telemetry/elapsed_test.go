package telemetry

import (
	"math"
	"testing"
)

func TestBreakdown(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    Elapsed
		text    string
	}{
		{"zero", 0, Elapsed{}, "0 a 000 d 00 h 00 m 00 s"},
		{"negative", -10, Elapsed{}, "0 a 000 d 00 h 00 m 00 s"},
		{"fraction", 59.5, Elapsed{Seconds: 59.5}, "0 a 000 d 00 h 00 m 59 s"},
		{"hour", 3661, Elapsed{Hours: 1, Minutes: 1, Seconds: 1}, "0 a 000 d 01 h 01 m 01 s"},
		{"mixed", Year + 2*Day + 3*Hour + 4*Minute + 5, Elapsed{1, 2, 3, 4, 5}, "1 a 002 d 03 h 04 m 05 s"},
		{"day 364", 364 * Day, Elapsed{Days: 364}, "0 a 364 d 00 h 00 m 00 s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Breakdown(tt.seconds)
			if got != tt.want {
				t.Errorf("Breakdown(%v) = %+v, want %+v", tt.seconds, got, tt.want)
			}
			if got.String() != tt.text {
				t.Errorf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestCalendarYearMismatch(t *testing.T) {
	// one 365-day year plus three hours: the breakdown has rolled over, the
	// coarse counter has not
	s := float64(Year + 3*Hour)

	if Breakdown(s).Years != 1 {
		t.Errorf("expected breakdown year 1, got %d", Breakdown(s).Years)
	}
	if math.Floor(CalendarYears(s)) != 0 {
		t.Errorf("expected calendar counter still 0, got %v", CalendarYears(s))
	}
	if math.Abs(CalendarYears(CalendarYear)-1) > 1e-12 {
		t.Errorf("CalendarYears(CalendarYear) = %v", CalendarYears(CalendarYear))
	}
}
