package user

import (
	"context"
	"database/sql"
)

// Directory resolves users for the schedule engine. Users are owned by the
// surrounding application; the engine only reads their skin-type
// classification and enumerates them for the daily sweep.
type Directory interface {
	// SkinTypeID returns the user's skin type. An invalid NullInt64 means the
	// user has no skin type assigned yet, which is a valid state.
	SkinTypeID(ctx context.Context, userID int64) (sql.NullInt64, error)
	ListIDs(ctx context.Context) ([]int64, error)
}
