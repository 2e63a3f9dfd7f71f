package schedule

import (
	"context"
	"database/sql"
	"time"
)

// TemplateRepository defines persistence for Templates. The engine only ever
// reads templates; Create exists for the admin-authoring operation.
type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	List(ctx context.Context, filter TemplateFilter) ([]*Template, error)
	// ListForDay returns the templates scoped to exactly the given skin type
	// (NULL matches NULL only) and ISO weekday, in creation order.
	ListForDay(ctx context.Context, skinTypeID sql.NullInt64, dayOfWeek int) ([]*Template, error)
}

// DailySetRepository owns DailySets and the Instances they contain. No other
// component writes either.
type DailySetRepository interface {
	// GetByUserAndDate returns the day's set with Instances populated.
	GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*DailySet, error)
	// CreateWithInstances persists the drafts and the set referencing them as
	// one atomic unit. A concurrent creation for the same (user, date) loses
	// with a duplicate error and must leave nothing visible.
	CreateWithInstances(ctx context.Context, userID int64, date time.Time, drafts []*Instance) (*DailySet, error)
	// ToggleInstanceFulfilled atomically flips one instance's fulfilled flag.
	ToggleInstanceFulfilled(ctx context.Context, instanceID int64) (*Instance, error)
}

// MonthlySetRepository owns MonthlySets.
type MonthlySetRepository interface {
	Get(ctx context.Context, userID int64, year, month int) (*MonthlySet, error)
	// GetExpanded returns the rollup with Days and their Instances populated.
	GetExpanded(ctx context.Context, userID int64, year, month int) (*MonthlySet, error)
	// Attach records a daily set in the month's rollup, creating the rollup if
	// absent. It is a single atomic read-modify-write and is idempotent per
	// dailySetID: attaching an already-attached set changes nothing.
	Attach(ctx context.Context, userID int64, year, month int, dailySetID int64) (*MonthlySet, error)
}
