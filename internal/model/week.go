package model

import (
	"math"
	"time"
)

// Midnight strips the time-of-day from t, keeping its location. All
// day-level comparisons in the engine normalize through this first to
// avoid off-by-one errors from inconsistent timestamps.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ISOWeekOf returns the ISO 8601 year and week number of t.
func ISOWeekOf(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// SameISOWeek reports whether a and b fall into the same ISO week of the
// same ISO year. The ISO year may differ from the calendar year at year
// boundaries, which is exactly why both parts are compared.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// WeekStart returns the midnight of the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday belongs to the week that started the previous Monday
	}
	return Midnight(t).AddDate(0, 0, -(wd - 1))
}

// DaysBetween returns the number of whole calendar days from a to b
// (negative when b precedes a). Both endpoints are normalized to midnight
// first, so the time-of-day of either argument cannot skew the count.
// Rounding absorbs the 23h/25h days around DST transitions.
func DaysBetween(a, b time.Time) int {
	am := Midnight(a)
	bm := Midnight(b)
	return int(math.Round(bm.Sub(am).Hours() / 24))
}
