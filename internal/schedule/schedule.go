// Package schedule assigns challenge content to calendar days according to
// a level-dependent growth policy.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"studycal/internal/model"
)

var (
	// ErrOutOfRange is returned when the linear policy would need more
	// catalog items than exist. Truncating silently would mis-assign
	// content to days, so this is a hard failure.
	ErrOutOfRange = errors.New("schedule: day offset exceeds catalog")

	// ErrUnsupportedLevel is returned for levels no policy is defined for.
	ErrUnsupportedLevel = errors.New("schedule: unsupported level")

	// ErrInvalidRange is returned when today precedes the batch start date.
	// Clamping to zero would hide a caller bug.
	ErrInvalidRange = errors.New("schedule: today precedes start date")
)

// Generate produces the day assignments implied by the given level's policy.
//
// Levels 1 and 2 use the linear-reveal policy: one item per elapsed day,
// dates reconstructed by walking backward from today. Levels 3 and above use
// the cumulative-window policy: a fixed 21-day window anchored at startDate,
// independent of today.
//
// today is injected rather than sampled from the system clock so identical
// inputs always yield identical output.
func Generate(items []model.ContentItem, startDate time.Time, level int, today time.Time) ([]model.DayAssignment, error) {
	switch {
	case level == 1 || level == 2:
		return generateLinear(items, startDate, today)
	case level >= 3:
		return generateCumulative(items, startDate), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLevel, level)
	}
}

// generateLinear reveals exactly one item per day. Entry i carries items[i]
// and is dated elapsed−i days before today.
//
// Note the backward walk from today instead of a forward walk from
// startDate: the two agree only when both dates share the same time-of-day
// granularity, and callers rely on the today-relative reconstruction.
func generateLinear(items []model.ContentItem, startDate, today time.Time) ([]model.DayAssignment, error) {
	elapsed := model.DaysBetween(startDate, today)
	if elapsed < 0 {
		return nil, fmt.Errorf("%w: start=%s today=%s",
			ErrInvalidRange, startDate.Format(time.DateOnly), today.Format(time.DateOnly))
	}

	n := elapsed + 1
	if n > len(items) {
		return nil, fmt.Errorf("%w: need %d items, have %d", ErrOutOfRange, n, len(items))
	}

	todayMidnight := model.Midnight(today)

	out := make([]model.DayAssignment, 0, n)
	for i := 0; i < n; i++ {
		date := todayMidnight.AddDate(0, 0, -(elapsed - i))
		out = append(out, model.DayAssignment{
			Date:  date,
			Items: []model.ContentItem{items[linearPlanIndex(i)]},
		})
	}
	return out, nil
}

// generateCumulative emits the full 21-day window regardless of today. A
// catalog shorter than the plan degrades to "first N": plan indexes past the
// end of items are skipped, never an error.
func generateCumulative(items []model.ContentItem, startDate time.Time) []model.DayAssignment {
	startMidnight := model.Midnight(startDate)

	out := make([]model.DayAssignment, 0, cumulativeWindowDays)
	for u := 0; u < cumulativeWindowDays; u++ {
		dayItems := make([]model.ContentItem, 0, len(cumulativePlan[u]))
		for _, idx := range cumulativePlan[u] {
			if idx >= len(items) {
				continue
			}
			dayItems = append(dayItems, items[idx])
		}
		out = append(out, model.DayAssignment{
			Date:  startMidnight.AddDate(0, 0, u),
			Items: dayItems,
		})
	}
	return out
}
