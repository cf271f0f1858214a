// Package catalog holds the static challenge content. Content lives apart
// from the per-level scheduling policy so editing items never shifts
// anyone's schedule.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"studycal/internal/model"
)

// defaultItems is the built-in 21-day challenge catalog. Ordering is
// significant: the index is the difficulty ordinal inside a level.
var defaultItems = []model.ContentItem{
	{ID: 0, Title: "Set up your study space", Description: "Pick a fixed spot to study and clear it of everything unrelated."},
	{ID: 1, Title: "Write down this week's goals", Description: "List at most three concrete outcomes you want by Sunday."},
	{ID: 2, Title: "Try a 25-minute focus block", Description: "One timer, one task, notifications off."},
	{ID: 3, Title: "Plan tomorrow tonight", Description: "Before going to bed, write the first task you will do tomorrow."},
	{ID: 4, Title: "Review before you add", Description: "Spend ten minutes reviewing yesterday's notes before new material."},
	{ID: 5, Title: "Explain it out loud", Description: "Teach today's hardest concept to an empty chair or a friend."},
	{ID: 6, Title: "Break a big task down", Description: "Split your largest pending task into steps under thirty minutes each."},
	{ID: 7, Title: "Schedule your breaks", Description: "Decide break times in advance instead of drifting into them."},
	{ID: 8, Title: "Test yourself first", Description: "Answer questions from memory before re-reading the chapter."},
	{ID: 9, Title: "Tidy your task list", Description: "Delete, delegate or date every task older than a week."},
	{ID: 10, Title: "Two focus blocks back-to-back", Description: "Chain two 25-minute blocks with a five-minute break between."},
	{ID: 11, Title: "Hardest thing first", Description: "Start the day with the task you have been avoiding."},
	{ID: 12, Title: "Summarize in one page", Description: "Condense a full topic onto a single sheet, diagrams allowed."},
	{ID: 13, Title: "Log your energy", Description: "Record how you feel at three points of the day and look for the dip."},
	{ID: 14, Title: "Study with a deadline", Description: "Give one task an artificial deadline one hour from now."},
	{ID: 15, Title: "Interleave two subjects", Description: "Alternate between two subjects instead of finishing one first."},
	{ID: 16, Title: "Close the loop", Description: "Finish one task you previously abandoned halfway."},
	{ID: 17, Title: "Three focus blocks", Description: "Three chained 25-minute blocks; note where your attention broke."},
	{ID: 18, Title: "Quiz a classmate", Description: "Swap five questions with someone taking the same course."},
	{ID: 19, Title: "Plan next week in advance", Description: "Block study slots for the whole coming week in your calendar."},
	{ID: 20, Title: "Write your own exam", Description: "Draft the exam you would set, then sit it tomorrow."},
}

// Default returns the built-in catalog. The returned slice is a fresh copy;
// callers may reorder or truncate it freely.
func Default() []model.ContentItem {
	items := make([]model.ContentItem, len(defaultItems))
	copy(items, defaultItems)
	return items
}

// LoadFile reads a catalog override from a YAML file containing a list of
// content items. An empty path returns the built-in catalog.
func LoadFile(path string) ([]model.ContentItem, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var items []model.ContentItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: %s contains no items", path)
	}
	return items, nil
}
