package ics

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "studycal/internal/log"
	"studycal/internal/model"
)

// errUnsupportedRRule marks VEVENTs whose recurrence rule has no mapping to
// the engine's daily/weekly kinds. Such events are skipped, not fatal.
var errUnsupportedRRule = errors.New("unsupported RRULE frequency")

// ParseTemplates parses a single ICS payload into event templates.
//
//   - SUMMARY maps to the template title, CATEGORIES to its tags.
//   - DTSTART/DTEND map to the template instants; the underlying library's
//     VTIMEZONE/TZID handling produces proper time.Time values.
//   - RRULE FREQ=DAILY / FREQ=WEEKLY map to the corresponding recurrence
//     kind; DTSTART becomes the recurrence's lower bound and UNTIL, when
//     present, its upper bound. Any other frequency skips the event with a
//     logged warning.
func ParseTemplates(src Source, body []byte) ([]model.EventTemplate, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, err
	}

	templates := make([]model.EventTemplate, 0)

	for _, ve := range cal.Events() {
		tpl, perr := parseVEvent(ve)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Error("ics vevent skipped", perr, "id", src.ID)
			continue
		}
		templates = append(templates, tpl)
	}

	appLog.Info("ics parse completed", "id", src.ID, "template_count", len(templates))
	return templates, nil
}

func parseVEvent(ve *ical.VEvent) (model.EventTemplate, error) {
	var out model.EventTemplate

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, errors.New("missing UID")
	}
	out.ID = templateID(uidProp.Value)

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Title = p.Value
	}

	// CATEGORIES: comma-separated tag list, possibly repeated.
	// Use the raw property name to avoid dependency on constant variants.
	for _, p := range ve.GetProperties("CATEGORIES") {
		for _, part := range strings.Split(p.Value, ",") {
			if tag := strings.TrimSpace(part); tag != "" {
				out.Tags = append(out.Tags, tag)
			}
		}
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return out, fmt.Errorf("DTEND: %w", err)
	}
	out.Start = start
	out.End = end

	out.Recurrence, err = parseRecurrence(ve, start)
	if err != nil {
		return out, err
	}

	return out, nil
}

// parseRecurrence maps an optional RRULE onto the engine's recurrence model.
func parseRecurrence(ve *ical.VEvent, start time.Time) (model.Recurrence, error) {
	rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		return model.Recurrence{Kind: model.RecurrenceNone}, nil
	}

	opt, err := rrule.StrToROption(rruleProp.Value)
	if err != nil {
		return model.Recurrence{}, fmt.Errorf("RRULE %q: %w", rruleProp.Value, err)
	}

	var kind model.RecurrenceKind
	switch opt.Freq {
	case rrule.DAILY:
		kind = model.RecurrenceDaily
	case rrule.WEEKLY:
		kind = model.RecurrenceWeekly
	default:
		return model.Recurrence{}, fmt.Errorf("%w: %s", errUnsupportedRRule, rruleProp.Value)
	}

	rec := model.Recurrence{Kind: kind}

	boundStart := start
	rec.BoundStart = &boundStart

	if !opt.Until.IsZero() {
		until := opt.Until
		rec.BoundEnd = &until
	}

	return rec, nil
}

// templateID derives a stable numeric template ID from an iCalendar UID.
func templateID(uid string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(uid))
	return int64(h.Sum64() & (1<<63 - 1))
}
