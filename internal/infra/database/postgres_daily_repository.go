package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skincare_schedule_service/internal/domain/schedule"

	"github.com/lib/pq" // For pq.Array and unique-violation inspection
)

// Custom errors specific to daily set and instance persistence
var ErrDailySetNotFound = fmt.Errorf("daily schedule set not found")
var ErrDuplicateDailySet = fmt.Errorf("daily schedule set already exists for this user and date")
var ErrInstanceNotFound = fmt.Errorf("schedule instance not found")

const uniqueViolationCode = "23505"

type PostgresDailySetRepository struct {
	db *sql.DB
}

func NewPostgresDailySetRepository(db *sql.DB) *PostgresDailySetRepository {
	return &PostgresDailySetRepository{db: db}
}

func (r *PostgresDailySetRepository) GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*schedule.DailySet, error) {
	query := `SELECT id, user_id, date, schedule_ids, created_at
               FROM daily_schedule_sets
               WHERE user_id = $1 AND date = $2`
	set := schedule.DailySet{}
	var ids pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, userID, schedule.Midnight(date)).
		Scan(&set.ID, &set.UserID, &set.Date, &ids, &set.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDailySetNotFound
		}
		return nil, fmt.Errorf("error getting daily schedule set: %w", err)
	}
	set.InstanceIDs = []int64(ids)
	set.Date = schedule.Midnight(set.Date)

	set.Instances, err = loadInstances(ctx, r.db, set.InstanceIDs)
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// CreateWithInstances persists the drafts and the daily set referencing them
// in a single transaction. The UNIQUE (user_id, date) constraint is the race
// guard: a losing concurrent creation rolls everything back, so it leaves no
// orphaned instances, and surfaces ErrDuplicateDailySet for the caller to
// re-fetch the winner.
func (r *PostgresDailySetRepository) CreateWithInstances(ctx context.Context, userID int64, date time.Time, drafts []*schedule.Instance) (*schedule.DailySet, error) {
	date = schedule.Midnight(date)

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction for daily set create: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO schedules (user_id, period, date, text, fulfilled)
                                         VALUES ($1, $2, $3, $4, FALSE)
                                         RETURNING id, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement for instance create: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(drafts))
	for _, draft := range drafts {
		draft.UserID = userID
		draft.Date = date
		draft.Fulfilled = false
		if err := stmt.QueryRowContext(ctx, draft.UserID, draft.Period, draft.Date, draft.Text).
			Scan(&draft.ID, &draft.CreatedAt); err != nil {
			return nil, fmt.Errorf("error creating schedule instance (U:%d, P:%s): %w", userID, draft.Period, err)
		}
		ids = append(ids, draft.ID)
	}

	set := schedule.DailySet{
		UserID:      userID,
		Date:        date,
		InstanceIDs: ids,
		Instances:   drafts,
	}
	query := `INSERT INTO daily_schedule_sets (user_id, date, schedule_ids)
               VALUES ($1, $2, $3)
               RETURNING id, created_at`
	err = txn.QueryRowContext(ctx, query, set.UserID, set.Date, pq.Array(set.InstanceIDs)).
		Scan(&set.ID, &set.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "daily_schedule_sets_user_date_key") {
			return nil, ErrDuplicateDailySet
		}
		return nil, fmt.Errorf("error creating daily schedule set: %w", err)
	}

	if err := txn.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit daily set create: %w", err)
	}
	return &set, nil
}

func (r *PostgresDailySetRepository) ToggleInstanceFulfilled(ctx context.Context, instanceID int64) (*schedule.Instance, error) {
	query := `UPDATE schedules
               SET fulfilled = NOT fulfilled
               WHERE id = $1
               RETURNING id, user_id, period, date, text, fulfilled, created_at`
	inst := schedule.Instance{}
	err := r.db.QueryRowContext(ctx, query, instanceID).
		Scan(&inst.ID, &inst.UserID, &inst.Period, &inst.Date, &inst.Text, &inst.Fulfilled, &inst.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInstanceNotFound
		}
		return nil, fmt.Errorf("error toggling schedule instance fulfilled state: %w", err)
	}
	inst.Date = schedule.Midnight(inst.Date)
	return &inst, nil
}

// loadInstances fetches the given instances ordered by their position in ids.
func loadInstances(ctx context.Context, db *sql.DB, ids []int64) ([]*schedule.Instance, error) {
	if len(ids) == 0 {
		return make([]*schedule.Instance, 0), nil
	}
	query := `SELECT id, user_id, period, date, text, fulfilled, created_at
               FROM schedules
               WHERE id = ANY($1)
               ORDER BY array_position($1::bigint[], id)`
	rows, err := db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying schedule instances: %w", err)
	}
	defer rows.Close()
	return scanInstances(rows)
}

func scanInstances(rows *sql.Rows) ([]*schedule.Instance, error) {
	instances := make([]*schedule.Instance, 0)
	for rows.Next() {
		inst := schedule.Instance{}
		if err := rows.Scan(&inst.ID, &inst.UserID, &inst.Period, &inst.Date, &inst.Text, &inst.Fulfilled, &inst.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning schedule instance row: %w", err)
		}
		inst.Date = schedule.Midnight(inst.Date)
		instances = append(instances, &inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule instance rows: %w", err)
	}
	return instances, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode && pqErr.Constraint == constraint
	}
	return false
}
