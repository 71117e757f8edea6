package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tasker"
	"github.com/sagarc03/tasker/database/sqlite"
)

func TestDatabase_MigrateValidate(t *testing.T) {
	ctx := context.Background()
	tables := tasker.Tables{Tasks: "tasks"}

	db, err := sqlite.Connect(ctx, ":memory:", tables)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Ping(ctx))
	assert.Error(t, db.Validate(ctx), "validate should fail without tables")

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
	assert.NoError(t, db.Validate(ctx))

	require.NoError(t, db.Drop(ctx))
	assert.Error(t, db.Validate(ctx), "validate should fail after drop")
}

func TestDatabase_Validate_SchemaMismatch(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "tasks.db")

	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = raw.ExecContext(ctx, `CREATE TABLE "tasks" (task_id TEXT NOT NULL, user_id INTEGER, done TEXT NOT NULL)`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	db, err := sqlite.Connect(ctx, dsn, tasker.Tables{Tasks: "tasks"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = db.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "attachment_url")
	assert.Contains(t, err.Error(), "user_id: expected text, got integer")
	assert.Contains(t, err.Error(), "done: expected integer, got text")
}

func TestDatabase_Close(t *testing.T) {
	ctx := context.Background()

	db, err := sqlite.Connect(ctx, ":memory:", tasker.Tables{Tasks: fmt.Sprintf("tasks_%s", getRandomString(t))})
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx), "ping should fail after close")
}
