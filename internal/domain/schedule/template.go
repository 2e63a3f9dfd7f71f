package schedule

import (
	"database/sql"
	"time"
)

// Template is an admin-authored recurring schedule rule. One template yields
// one concrete Instance per matching pull. Templates are immutable once
// created and are not owned by any user.
// Corresponds to the 'pool_schedules' table.
type Template struct {
	ID         int64
	SkinTypeID sql.NullInt64 // NULL scopes the template to users without a skin type
	Period     Period
	DayOfWeek  int // ISO weekday, Monday=1 .. Sunday=7
	Text       string
	CreatedAt  time.Time
}

// TemplateFilter narrows List results. Zero values mean "no filter".
type TemplateFilter struct {
	Period     Period
	SkinTypeID *int64
}
