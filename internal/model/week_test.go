package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMidnight(t *testing.T) {
	in := time.Date(2024, time.January, 10, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, date(2024, time.January, 10), Midnight(in))
}

func TestWeekStart(t *testing.T) {
	monday := date(2024, time.January, 8)

	// Every day of the week maps back to its Monday, Sunday included.
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i).Add(15 * time.Hour)
		assert.Equal(t, monday, WeekStart(day), "offset %d", i)
	}

	assert.Equal(t, date(2024, time.January, 15), WeekStart(date(2024, time.January, 15)))
}

func TestSameISOWeek(t *testing.T) {
	assert.True(t, SameISOWeek(date(2024, time.January, 8), date(2024, time.January, 14)))
	assert.False(t, SameISOWeek(date(2024, time.January, 8), date(2024, time.January, 15)))

	// ISO year differs from calendar year around January 1st:
	// 2024-01-01 belongs to 2024-W01, 2023-12-31 to 2023-W52.
	assert.False(t, SameISOWeek(date(2023, time.December, 31), date(2024, time.January, 1)))

	// 2021-01-01 falls into 2020-W53 together with 2020-12-31.
	assert.True(t, SameISOWeek(date(2020, time.December, 31), date(2021, time.January, 1)))
}

func TestDaysBetween(t *testing.T) {
	a := date(2024, time.January, 1)
	assert.Equal(t, 0, DaysBetween(a, a))
	assert.Equal(t, 2, DaysBetween(a, date(2024, time.January, 3)))
	assert.Equal(t, -2, DaysBetween(date(2024, time.January, 3), a))

	// Time-of-day must not skew the count.
	late := time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC)
	early := time.Date(2024, time.January, 3, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(late, early))
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(
		time.Date(2024, time.March, 5, 0, 1, 0, 0, time.UTC),
		time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC),
	))
	assert.False(t, SameDay(date(2024, time.March, 5), date(2024, time.March, 6)))
}
