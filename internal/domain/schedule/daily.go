package schedule

import "time"

// DailySet is the unique per-user-per-day container of that day's instances.
// At most one exists per (UserID, Date); the instance id list is fixed at
// creation time, in materialization order.
// Corresponds to the 'daily_schedule_sets' table.
type DailySet struct {
	ID          int64
	UserID      int64
	Date        time.Time // UTC midnight of the calendar day
	InstanceIDs []int64
	CreatedAt   time.Time

	// Instances carries the expanded rows on reads that populate them,
	// ordered as InstanceIDs.
	Instances []*Instance
}
