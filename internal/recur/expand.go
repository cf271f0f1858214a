// Package recur expands recurring event templates into concrete occurrences
// for the current calendar week.
package recur

import (
	"time"

	"studycal/internal/model"
)

// Expand materializes the occurrences of the given templates that fall into
// the Monday-anchored week containing now.
//
// Non-recurring templates are included when their start shares now's ISO
// week; instant-range containment is deliberately not used so expansion and
// the statistics layer agree on week membership. Recurring templates are
// synthesized day by day across the week, clamped to their bounds, with the
// template's duration preserved on every occurrence.
//
// The result carries no ordering guarantee; callers sort by start when they
// need one.
func Expand(templates []model.EventTemplate, now time.Time) []model.EventOccurrence {
	out := make([]model.EventOccurrence, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, expandTemplate(tpl, now)...)
	}
	return out
}

func expandTemplate(tpl model.EventTemplate, now time.Time) []model.EventOccurrence {
	if tpl.Recurrence.Kind == model.RecurrenceNone || tpl.Recurrence.Kind == "" {
		if model.SameISOWeek(tpl.Start, now) {
			return []model.EventOccurrence{makeOccurrence(tpl, tpl.Start, tpl.End)}
		}
		return nil
	}

	duration := tpl.Duration()
	weekStart := model.WeekStart(now)

	var out []model.EventOccurrence
	for i := 0; i < 7; i++ {
		// Fresh value per iteration; the dates in the result must never
		// alias a shared loop variable.
		day := weekStart.AddDate(0, 0, i)

		if bs := tpl.Recurrence.BoundStart; bs != nil && day.Before(model.Midnight(*bs)) {
			continue
		}
		if be := tpl.Recurrence.BoundEnd; be != nil && day.After(model.Midnight(*be)) {
			continue
		}

		occurs := false
		switch tpl.Recurrence.Kind {
		case model.RecurrenceDaily:
			occurs = true
		case model.RecurrenceWeekly:
			occurs = day.Weekday() == tpl.Start.Weekday()
		}
		if !occurs {
			continue
		}

		start := time.Date(day.Year(), day.Month(), day.Day(),
			tpl.Start.Hour(), tpl.Start.Minute(), 0, 0, day.Location())
		end := start.Add(duration)

		// Guard against boundary artifacts: time-of-day arithmetic can push
		// a synthesized start across a week edge.
		if !model.SameISOWeek(start, now) {
			continue
		}

		out = append(out, makeOccurrence(tpl, start, end))
	}
	return out
}

func makeOccurrence(tpl model.EventTemplate, start, end time.Time) model.EventOccurrence {
	return model.EventOccurrence{
		TemplateID: tpl.ID,
		Title:      tpl.Title,
		Tags:       tpl.Tags,
		Start:      start,
		End:        end,
	}
}
