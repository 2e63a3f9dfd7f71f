package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Custom errors specific to user lookups
var ErrUserNotFound = fmt.Errorf("user not found")

// PostgresUserDirectory reads the application-owned users table. The engine
// never writes users.
type PostgresUserDirectory struct {
	db *sql.DB
}

func NewPostgresUserDirectory(db *sql.DB) *PostgresUserDirectory {
	return &PostgresUserDirectory{db: db}
}

func (d *PostgresUserDirectory) SkinTypeID(ctx context.Context, userID int64) (sql.NullInt64, error) {
	query := `SELECT skin_type_id FROM users WHERE id = $1`
	var skinTypeID sql.NullInt64
	err := d.db.QueryRowContext(ctx, query, userID).Scan(&skinTypeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return sql.NullInt64{}, ErrUserNotFound
		}
		return sql.NullInt64{}, fmt.Errorf("error getting user skin type: %w", err)
	}
	return skinTypeID, nil
}

func (d *PostgresUserDirectory) ListIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM users ORDER BY id`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning user id row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user id rows: %w", err)
	}
	return ids, nil
}
