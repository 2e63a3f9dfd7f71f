package schedule

import (
	"database/sql"
	"time"
)

// Materialize builds the concrete instances to create for one user on one
// calendar day. A template matches when its weekday equals the day's ISO
// weekday and its skin type equals the user's exactly: a template with no
// skin type applies only to users with no skin type, never as a fallback.
// Drafts come back in template order with Fulfilled false and no IDs; an
// empty result is a normal outcome, not an error.
func Materialize(userID int64, skinTypeID sql.NullInt64, day time.Time, templates []*Template) []*Instance {
	day = Midnight(day)
	weekday := ISOWeekday(day)

	drafts := make([]*Instance, 0, len(templates))
	for _, t := range templates {
		if t.DayOfWeek != weekday {
			continue
		}
		if !sameSkinType(t.SkinTypeID, skinTypeID) {
			continue
		}
		drafts = append(drafts, &Instance{
			UserID: userID,
			Period: t.Period,
			Date:   day,
			Text:   t.Text,
		})
	}
	return drafts
}

func sameSkinType(a, b sql.NullInt64) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Int64 == b.Int64
}
