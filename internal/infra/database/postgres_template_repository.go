package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"skincare_schedule_service/internal/domain/schedule"
)

// Custom errors specific to template lookups
var ErrTemplateNotFound = fmt.Errorf("schedule template not found")

type PostgresTemplateRepository struct {
	db *sql.DB
}

func NewPostgresTemplateRepository(db *sql.DB) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{db: db}
}

func (r *PostgresTemplateRepository) Create(ctx context.Context, t *schedule.Template) error {
	query := `INSERT INTO pool_schedules (skin_type_id, period, day_of_week, text)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, t.SkinTypeID, t.Period, t.DayOfWeek, t.Text).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating schedule template: %w", err)
	}
	return nil
}

func (r *PostgresTemplateRepository) List(ctx context.Context, filter schedule.TemplateFilter) ([]*schedule.Template, error) {
	query := `SELECT id, skin_type_id, period, day_of_week, text, created_at FROM pool_schedules`
	var conditions []string
	var args []any
	if filter.Period != "" {
		args = append(args, filter.Period)
		conditions = append(conditions, "period = $"+strconv.Itoa(len(args)))
	}
	if filter.SkinTypeID != nil {
		args = append(args, *filter.SkinTypeID)
		conditions = append(conditions, "skin_type_id = $"+strconv.Itoa(len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying schedule templates: %w", err)
	}
	defer rows.Close()
	return scanTemplates(rows)
}

func (r *PostgresTemplateRepository) ListForDay(ctx context.Context, skinTypeID sql.NullInt64, dayOfWeek int) ([]*schedule.Template, error) {
	// IS NOT DISTINCT FROM keeps the exact-match semantics for NULL skin
	// types: NULL-scoped templates match only users without a skin type.
	query := `SELECT id, skin_type_id, period, day_of_week, text, created_at
               FROM pool_schedules
               WHERE day_of_week = $1 AND skin_type_id IS NOT DISTINCT FROM $2
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, dayOfWeek, skinTypeID)
	if err != nil {
		return nil, fmt.Errorf("error querying schedule templates for day: %w", err)
	}
	defer rows.Close()
	return scanTemplates(rows)
}

func scanTemplates(rows *sql.Rows) ([]*schedule.Template, error) {
	templates := make([]*schedule.Template, 0)
	for rows.Next() {
		t := schedule.Template{}
		if err := rows.Scan(&t.ID, &t.SkinTypeID, &t.Period, &t.DayOfWeek, &t.Text, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning schedule template row: %w", err)
		}
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule template rows: %w", err)
	}
	return templates, nil
}
