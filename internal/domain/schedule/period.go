package schedule

import "time"

// Period is the time-of-day slot a schedule entry belongs to.
type Period string

const (
	PeriodMorning Period = "MORNING"
	PeriodNoon    Period = "NOON"
	PeriodEvening Period = "EVENING"
)

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodMorning, PeriodNoon, PeriodEvening:
		return true
	}
	return false
}

// Midnight returns the UTC-midnight encoding of t's calendar day. All stored
// dates use this encoding, so "same day" reduces to time equality.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ISOWeekday returns the ISO-8601 weekday number of t (Monday=1 .. Sunday=7).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// YearMonth returns the monthly rollup key for a day. Month is 0-based
// (January = 0), matching the stored representation.
func YearMonth(day time.Time) (year, month int) {
	return day.Year(), int(day.Month()) - 1
}
