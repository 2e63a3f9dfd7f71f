package database

import (
	"context"
	"database/sql"
	"fmt"

	"skincare_schedule_service/internal/domain/schedule"

	"github.com/lib/pq"
)

// Custom errors specific to monthly set lookups
var ErrMonthlySetNotFound = fmt.Errorf("monthly schedule set not found")

type PostgresMonthlySetRepository struct {
	db *sql.DB
}

func NewPostgresMonthlySetRepository(db *sql.DB) *PostgresMonthlySetRepository {
	return &PostgresMonthlySetRepository{db: db}
}

func (r *PostgresMonthlySetRepository) Get(ctx context.Context, userID int64, year, month int) (*schedule.MonthlySet, error) {
	query := `SELECT id, user_id, year, month, day_entire_count, day_fulfilled_count, daily_set_ids, created_at
               FROM monthly_schedule_sets
               WHERE user_id = $1 AND year = $2 AND month = $3`
	set := schedule.MonthlySet{}
	var ids pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, userID, year, month).Scan(
		&set.ID, &set.UserID, &set.Year, &set.Month,
		&set.DayEntireCount, &set.DayFulfilledCount, &ids, &set.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMonthlySetNotFound
		}
		return nil, fmt.Errorf("error getting monthly schedule set: %w", err)
	}
	set.DailySetIDs = []int64(ids)
	return &set, nil
}

func (r *PostgresMonthlySetRepository) GetExpanded(ctx context.Context, userID int64, year, month int) (*schedule.MonthlySet, error) {
	set, err := r.Get(ctx, userID, year, month)
	if err != nil {
		return nil, err
	}
	set.Days, err = r.loadDailySets(ctx, set.DailySetIDs)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Attach records a daily set in the month's rollup as one atomic statement.
// The upsert covers both the "rollup absent" and "rollup present" branches and
// is idempotent per daily set id: retried or concurrent attaches of the same
// set never double-count.
func (r *PostgresMonthlySetRepository) Attach(ctx context.Context, userID int64, year, month int, dailySetID int64) (*schedule.MonthlySet, error) {
	query := `INSERT INTO monthly_schedule_sets (user_id, year, month, day_entire_count, daily_set_ids)
               VALUES ($1, $2, $3, 1, ARRAY[$4]::bigint[])
               ON CONFLICT ON CONSTRAINT monthly_schedule_sets_user_year_month_key DO UPDATE
               SET day_entire_count = CASE
                       WHEN $4 = ANY (monthly_schedule_sets.daily_set_ids) THEN monthly_schedule_sets.day_entire_count
                       ELSE monthly_schedule_sets.day_entire_count + 1
                   END,
                   daily_set_ids = CASE
                       WHEN $4 = ANY (monthly_schedule_sets.daily_set_ids) THEN monthly_schedule_sets.daily_set_ids
                       ELSE array_append(monthly_schedule_sets.daily_set_ids, $4)
                   END
               RETURNING id, user_id, year, month, day_entire_count, day_fulfilled_count, daily_set_ids, created_at`
	set := schedule.MonthlySet{}
	var ids pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, userID, year, month, dailySetID).Scan(
		&set.ID, &set.UserID, &set.Year, &set.Month,
		&set.DayEntireCount, &set.DayFulfilledCount, &ids, &set.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error attaching daily set %d to monthly schedule set: %w", dailySetID, err)
	}
	set.DailySetIDs = []int64(ids)
	return &set, nil
}

// loadDailySets fetches daily sets ordered by their position in ids, with
// each set's instances populated.
func (r *PostgresMonthlySetRepository) loadDailySets(ctx context.Context, ids []int64) ([]*schedule.DailySet, error) {
	if len(ids) == 0 {
		return make([]*schedule.DailySet, 0), nil
	}
	query := `SELECT id, user_id, date, schedule_ids, created_at
               FROM daily_schedule_sets
               WHERE id = ANY($1)
               ORDER BY array_position($1::bigint[], id)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying daily schedule sets: %w", err)
	}
	defer rows.Close()

	sets := make([]*schedule.DailySet, 0, len(ids))
	var allInstanceIDs []int64
	for rows.Next() {
		set := schedule.DailySet{}
		var instanceIDs pq.Int64Array
		if err := rows.Scan(&set.ID, &set.UserID, &set.Date, &instanceIDs, &set.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning daily schedule set row: %w", err)
		}
		set.Date = schedule.Midnight(set.Date)
		set.InstanceIDs = []int64(instanceIDs)
		allInstanceIDs = append(allInstanceIDs, set.InstanceIDs...)
		sets = append(sets, &set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily schedule set rows: %w", err)
	}

	instances, err := loadInstances(ctx, r.db, allInstanceIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*schedule.Instance, len(instances))
	for _, inst := range instances {
		byID[inst.ID] = inst
	}
	for _, set := range sets {
		set.Instances = make([]*schedule.Instance, 0, len(set.InstanceIDs))
		for _, id := range set.InstanceIDs {
			if inst, ok := byID[id]; ok {
				set.Instances = append(set.Instances, inst)
			}
		}
	}
	return sets, nil
}
