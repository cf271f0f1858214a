package model

import "time"

// RecurrenceKind describes how (and whether) an event template repeats.
type RecurrenceKind string

const (
	RecurrenceNone   RecurrenceKind = "none"
	RecurrenceDaily  RecurrenceKind = "daily"
	RecurrenceWeekly RecurrenceKind = "weekly"
)

// ContentItem is one entry of the static challenge catalog. Items are
// ordered; the position of an item inside a level's day plan decides on
// which day it becomes visible.
type ContentItem struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// DayAssignment maps one calendar day to the content items scheduled for it.
// Produced by the schedule generator, never mutated afterwards.
type DayAssignment struct {
	Date  time.Time     `json:"date"`
	Items []ContentItem `json:"items"`
}

// Recurrence describes a template's repetition rule. BoundStart/BoundEnd,
// when set, clamp the dates on which occurrences may be generated.
type Recurrence struct {
	Kind       RecurrenceKind `json:"kind"`
	BoundStart *time.Time     `json:"bound_start,omitempty"`
	BoundEnd   *time.Time     `json:"bound_end,omitempty"`
}

// EventTemplate is a logical calendar event before recurrence expansion.
// Start/End carry both the first occurrence's absolute time-of-day and,
// for weekly recurrence, its day-of-week. The duration End−Start is
// preserved across all generated occurrences.
type EventTemplate struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Tags       []string   `json:"tags,omitempty"`
	Recurrence Recurrence `json:"recurrence"`
}

// Duration returns the template's occurrence duration.
func (t EventTemplate) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// EventOccurrence is a single concrete instance of a (possibly recurring)
// event template. Owned by the caller for the lifetime of one query.
type EventOccurrence struct {
	TemplateID int64     `json:"template_id"`
	Title      string    `json:"title"`
	Tags       []string  `json:"tags,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// TaskLog records a task known to the tracker. CompletedAt is nil while the
// task is still open.
type TaskLog struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// MoodLog is one mood/energy answer for a day.
type MoodLog struct {
	Date  time.Time `json:"date"`
	Level int       `json:"level"`
}

// LogEntry is the generic dated-value input consumed by timeline filling.
type LogEntry struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// WeeklyTagTotal accumulates minutes per (ISO year, ISO week, tag).
// Unique per key; minutes add up across occurrences.
type WeeklyTagTotal struct {
	ISOYear int    `json:"iso_year"`
	ISOWeek int    `json:"iso_week"`
	Tag     string `json:"tag"`
	Minutes int    `json:"minutes"`
}

// TimelineEntry is one day of a gap-filled daily series. Days absent from
// the raw log are represented with HasLog=false instead of being omitted.
type TimelineEntry struct {
	Date   time.Time `json:"date"`
	HasLog bool      `json:"has_log"`
	Value  float64   `json:"value,omitempty"`
}
