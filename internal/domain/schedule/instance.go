package schedule

import "time"

// Instance is a concrete, user-owned schedule item for one calendar day,
// derived from a Template at pull time. Only Fulfilled changes after creation.
// Corresponds to the 'schedules' table.
type Instance struct {
	ID        int64
	UserID    int64
	Period    Period
	Date      time.Time // UTC midnight of the calendar day
	Text      string
	Fulfilled bool
	CreatedAt time.Time
}
