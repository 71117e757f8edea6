package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func quoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func createTasksTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	quotedTable := quoteIdentifier(tableName)
	indexOwnerCreated := quoteIdentifier(fmt.Sprintf("idx_%s_user_created", tableName))

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			task_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			due_date TEXT NOT NULL DEFAULT '',
			done BOOLEAN NOT NULL DEFAULT FALSE,
			attachment_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, task_id)
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (user_id, created_at);
	`,
		quotedTable,
		indexOwnerCreated, quotedTable,
	)

	if _, err := pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}
