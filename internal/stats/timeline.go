package stats

import (
	"time"

	"studycal/internal/model"
)

// DefaultTimelineWindowDays caps how far back a filled timeline reaches.
const DefaultTimelineWindowDays = 30

// FillTimeline turns a sparse dated-value log into a contiguous daily
// series with explicit "no data" days.
//
// Input dates are normalized to midnight. The series always reaches at
// least today and extends past it when a future-dated entry exists; its
// start is capped at windowDays before the last day even if older entries
// exist. windowDays <= 0 selects the default of 30.
//
// The output length is exactly lastDay−firstDay+1 days; an empty input
// yields an empty series.
func FillTimeline(entries []model.LogEntry, now time.Time, windowDays int) []model.TimelineEntry {
	if len(entries) == 0 {
		return []model.TimelineEntry{}
	}
	if windowDays <= 0 {
		windowDays = DefaultTimelineWindowDays
	}

	// Keyed by the calendar date string: time.Time values are unreliable
	// map keys once inputs mix locations.
	byDay := make(map[string]float64, len(entries))
	var first, last time.Time
	for i, e := range entries {
		day := model.Midnight(e.Date)
		byDay[day.Format(time.DateOnly)] = e.Value
		if i == 0 || day.Before(first) {
			first = day
		}
		if i == 0 || day.After(last) {
			last = day
		}
	}

	effectiveLast := model.Midnight(now)
	if last.After(effectiveLast) {
		effectiveLast = last
	}

	start := effectiveLast.AddDate(0, 0, -windowDays)
	if first.After(start) {
		start = first
	}

	n := model.DaysBetween(start, effectiveLast) + 1
	out := make([]model.TimelineEntry, 0, n)
	for i := 0; i < n; i++ {
		day := start.AddDate(0, 0, i)
		entry := model.TimelineEntry{Date: day}
		if v, ok := byDay[day.Format(time.DateOnly)]; ok {
			entry.HasLog = true
			entry.Value = v
		}
		out = append(out, entry)
	}
	return out
}
