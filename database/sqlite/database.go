// Package sqlite implements tasker.TaskRepo on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/tasker"

	_ "modernc.org/sqlite" // SQLite driver
)

// database provides SQLite database operations.
type database struct {
	db     *sql.DB
	tables tasker.Tables
}

// Connect opens a SQLite database.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables tasker.Tables) (*database, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite serializes writers anyway, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)

	return &database{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *database) Migrate(ctx context.Context) error {
	for _, m := range tableMigrations(d.tables) {
		if err := m.up(ctx, d.db); err != nil {
			return fmt.Errorf("migrate %s: %w", m.tableName, err)
		}
	}
	return nil
}

// Validate checks that the database schema matches expected structure.
func (d *database) Validate(ctx context.Context) error {
	for _, v := range tableValidations(d.tables) {
		if err := validateTableSchema(ctx, d.db, v.tableName, v.expectedSchema); err != nil {
			return fmt.Errorf("validate schema %s: %w", v.tableName, err)
		}
	}
	return nil
}

// GetRepo returns the TaskRepo for database operations.
func (d *database) GetRepo() tasker.TaskRepo {
	return &repo{db: d.db, tableName: quoteIdentifier(d.tables.Tasks)}
}

// Drop removes every table created by Migrate.
func (d *database) Drop(ctx context.Context) error {
	migrations := tableMigrations(d.tables)
	for i := len(migrations) - 1; i >= 0; i-- {
		if err := migrations[i].down(ctx, d.db); err != nil {
			return fmt.Errorf("drop %s: %w", migrations[i].tableName, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (d *database) Close() error {
	return d.db.Close()
}
