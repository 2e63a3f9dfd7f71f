package database

import (
	"database/sql"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
)

// RunMigrations applies all pending SQL migrations from dir and returns the
// number applied. The schema carries the engine's two hard structural
// requirements: UNIQUE (user_id, date) on daily sets and
// UNIQUE (user_id, year, month) on monthly sets.
func RunMigrations(db *sql.DB, dir string) (int, error) {
	source := &migrate.FileMigrationSource{Dir: dir}
	n, err := migrate.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations from %s: %w", dir, err)
	}
	return n, nil
}
