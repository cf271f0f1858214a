package stats

import (
	"math"
	"time"

	"studycal/internal/model"
)

// FocusSummary are the session metrics for one ISO week.
type FocusSummary struct {
	Sessions     int    `json:"sessions"`
	TotalMinutes int    `json:"total_minutes"`
	AvgMinutes   int    `json:"avg_minutes"`
	MinMinutes   int    `json:"min_minutes"`
	MaxMinutes   int    `json:"max_minutes"`
	MaxStreak    int    `json:"max_streak"`
	ByWeekday    [7]int `json:"by_weekday"` // minutes, Monday first
}

// WeekFocusSummary restricts occurrences to the ISO week containing now and
// computes per-session duration metrics, streak length, and minute totals
// per weekday. A week with no sessions yields the zero summary.
func WeekFocusSummary(occurrences []model.EventOccurrence, now time.Time) FocusSummary {
	var weekly []model.EventOccurrence
	for _, occ := range occurrences {
		if model.SameISOWeek(occ.Start, now) {
			weekly = append(weekly, occ)
		}
	}
	if len(weekly) == 0 {
		return FocusSummary{}
	}

	var summary FocusSummary
	summary.Sessions = len(weekly)
	summary.MinMinutes = math.MaxInt

	for _, occ := range weekly {
		minutes := durationMinutes(occ.Start, occ.End)
		summary.TotalMinutes += minutes
		if minutes < summary.MinMinutes {
			summary.MinMinutes = minutes
		}
		if minutes > summary.MaxMinutes {
			summary.MaxMinutes = minutes
		}

		wd := int(occ.Start.Weekday())
		if wd == 0 {
			wd = 7
		}
		summary.ByWeekday[wd-1] += minutes
	}

	summary.AvgMinutes = int(math.Round(float64(summary.TotalMinutes) / float64(summary.Sessions)))
	summary.MaxStreak = MaxConsecutiveStreak(weekly)
	return summary
}

// DayCount is the number of task completions on one calendar day.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// TaskCompletionStats summarizes completed tasks over a trailing window.
type TaskCompletionStats struct {
	Days           []DayCount `json:"days"`
	TotalCompleted int        `json:"total_completed"`
	ActiveDays     int        `json:"active_days"`
}

// CompletionsByDay buckets completed tasks into the horizonDays days ending
// today. Days without completions are present with a zero count.
// horizonDays <= 0 selects a week.
func CompletionsByDay(tasks []model.TaskLog, now time.Time, horizonDays int) TaskCompletionStats {
	if horizonDays <= 0 {
		horizonDays = 7
	}

	counts := make([]int, horizonDays)
	total := 0
	for _, task := range tasks {
		if task.CompletedAt == nil {
			continue
		}
		dayDiff := model.DaysBetween(*task.CompletedAt, now)
		if dayDiff < 0 || dayDiff >= horizonDays {
			continue
		}
		counts[horizonDays-1-dayDiff]++
		total++
	}

	start := model.Midnight(now).AddDate(0, 0, -(horizonDays - 1))
	stats := TaskCompletionStats{
		Days:           make([]DayCount, 0, horizonDays),
		TotalCompleted: total,
	}
	for i, c := range counts {
		stats.Days = append(stats.Days, DayCount{
			Date:  start.AddDate(0, 0, i),
			Count: c,
		})
		if c > 0 {
			stats.ActiveDays++
		}
	}
	return stats
}

// EnergyLabel buckets a mood/energy level into its display band.
func EnergyLabel(level int) string {
	switch {
	case level >= 9:
		return "very well"
	case level >= 7:
		return "well"
	case level >= 5:
		return "good"
	default:
		return "alive"
	}
}
