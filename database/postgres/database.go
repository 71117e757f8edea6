// Package postgres implements tasker.TaskRepo on PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/tasker"
)

type database struct {
	pool   *pgxpool.Pool
	tables tasker.Tables
}

// Connect establishes a connection to PostgreSQL.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables tasker.Tables) (*database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &database{
		pool:   pool,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *database) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *database) Migrate(ctx context.Context) error {
	if err := createTasksTable(ctx, d.pool, d.tables.Tasks); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Validate checks that the database schema matches expected structure.
func (d *database) Validate(ctx context.Context) error {
	for _, v := range tableValidations(d.tables) {
		if err := validateTableSchema(ctx, d.pool, v.tableName, v.expectedSchema); err != nil {
			return fmt.Errorf("validate schema %s: %w", v.tableName, err)
		}
	}
	return nil
}

// GetRepo returns the TaskRepo for database operations.
func (d *database) GetRepo() tasker.TaskRepo {
	return &repo{pool: d.pool, tableName: quoteIdentifier(d.tables.Tasks)}
}

// Close closes the database connection pool.
func (d *database) Close() error {
	d.pool.Close()
	return nil
}
