package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/tasker"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type tableMigration struct {
	tableName string
	up        func(ctx context.Context, db *sql.DB) error
	down      func(ctx context.Context, db *sql.DB) error
}

func tableMigrations(tables tasker.Tables) []tableMigration {
	return []tableMigration{
		{
			tableName: tables.Tasks,
			up:        createTasksTable(tables.Tasks),
			down:      dropTable(tables.Tasks),
		},
	}
}

func createTasksTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexOwnerCreated := quoteIdentifier(fmt.Sprintf("idx_%s_user_created", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				task_id TEXT NOT NULL,
				user_id TEXT NOT NULL,
				description TEXT NOT NULL,
				due_date TEXT NOT NULL DEFAULT '',
				done INTEGER NOT NULL DEFAULT 0,
				attachment_url TEXT,
				created_at TEXT NOT NULL,
				PRIMARY KEY (user_id, task_id)
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (user_id, created_at)
		`, indexOwnerCreated, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index user_created: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(tableName)))
		return err
	}
}
