// Package stats aggregates time-stamped activity (focus sessions, task
// completions, mood logs) into week-bucketed statistics.
//
// Every function takes its inputs and a reference time explicitly and
// allocates a fresh result, so concurrent callers need no synchronization.
package stats

import (
	"sort"
	"time"

	"studycal/internal/model"
)

// UntaggedBucket is the implicit tag occurrences without tags accumulate
// under. Untagged time is never dropped.
const UntaggedBucket = "untagged"

// streakMaxGap is the largest pause between two sessions that still counts
// as back-to-back focus cycles. Policy constant, not derived.
const streakMaxGap = 5 * time.Minute

type weekTagKey struct {
	year int
	week int
	tag  string
}

// ByWeekAndTag sums occurrence durations per (ISO year, ISO week, tag).
//
// An occurrence with several tags contributes its full duration to each of
// them; time is duplicated, not divided. An occurrence without tags goes to
// the UntaggedBucket. The result is sorted by year, week, tag so repeated
// runs over the same input are identical.
func ByWeekAndTag(occurrences []model.EventOccurrence) []model.WeeklyTagTotal {
	totals := make(map[weekTagKey]int)

	for _, occ := range occurrences {
		minutes := durationMinutes(occ.Start, occ.End)
		year, week := model.ISOWeekOf(occ.Start)

		tags := occ.Tags
		if len(tags) == 0 {
			tags = []string{UntaggedBucket}
		}
		for _, tag := range tags {
			totals[weekTagKey{year: year, week: week, tag: tag}] += minutes
		}
	}

	out := make([]model.WeeklyTagTotal, 0, len(totals))
	for key, minutes := range totals {
		out = append(out, model.WeeklyTagTotal{
			ISOYear: key.year,
			ISOWeek: key.week,
			Tag:     key.tag,
			Minutes: minutes,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ISOYear != b.ISOYear {
			return a.ISOYear < b.ISOYear
		}
		if a.ISOWeek != b.ISOWeek {
			return a.ISOWeek < b.ISOWeek
		}
		return a.Tag < b.Tag
	})
	return out
}

// MaxConsecutiveStreak returns the longest run of occurrences whose
// back-to-back gaps are all within the streak threshold. Occurrences are
// sorted by start first; a gap of zero or less (overlap) breaks the run,
// as does a pause longer than five minutes.
//
// Returns 0 for empty input, at least 1 otherwise.
func MaxConsecutiveStreak(occurrences []model.EventOccurrence) int {
	if len(occurrences) == 0 {
		return 0
	}

	sorted := make([]model.EventOccurrence, len(occurrences))
	copy(sorted, occurrences)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	maxStreak := 1
	current := 1
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Start.Sub(sorted[i-1].End)
		if gap > 0 && gap <= streakMaxGap {
			current++
		} else {
			if current > maxStreak {
				maxStreak = current
			}
			current = 1
		}
	}
	if current > maxStreak {
		maxStreak = current
	}
	return maxStreak
}

// durationMinutes rounds an occurrence's duration to whole minutes.
func durationMinutes(start, end time.Time) int {
	return int(end.Sub(start).Round(time.Minute) / time.Minute)
}
