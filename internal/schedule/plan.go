package schedule

// cumulativeWindowDays is the fixed length of a cumulative-window batch.
const cumulativeWindowDays = 21

// cumulativeCap is the maximum number of items a single day exposes once
// the initial unlock ramp is over.
const cumulativeCap = 5

// cumulativePlan maps a day offset inside a cumulative batch to the catalog
// indexes assigned to that day. During the unlock ramp each day shows every
// item unlocked so far, most recent first; from day 5 onward the plan shows
// the first five items in catalog order. Keeping this as an explicit table
// decouples catalog content edits from the scheduling policy.
var cumulativePlan = [cumulativeWindowDays][]int{
	{0},
	{1, 0},
	{2, 1, 0},
	{3, 2, 1, 0},
	{4, 3, 2, 1, 0},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
	{0, 1, 2, 3, 4},
}

// linearPlanIndex maps a day offset to the single catalog index revealed on
// that day under the linear policy. The identity mapping is written as a
// function rather than inlined at the call sites so the policy stays in one
// place next to the cumulative table.
func linearPlanIndex(dayOffset int) int {
	return dayOffset
}
