package schedule

import "time"

// MonthlySet is the unique per-user-per-month rollup indexing the month's
// daily sets. DayEntireCount increments by exactly one each time a daily set
// is attached. DayFulfilledCount exists in the data model but no transition
// writes it yet; its trigger is undefined at the product level.
// Corresponds to the 'monthly_schedule_sets' table.
type MonthlySet struct {
	ID                int64
	UserID            int64
	Year              int
	Month             int // 0-based, January = 0
	DayEntireCount    int
	DayFulfilledCount int
	DailySetIDs       []int64
	CreatedAt         time.Time

	// Days carries the expanded daily sets on reads that populate them,
	// ordered as DailySetIDs.
	Days []*DailySet
}
