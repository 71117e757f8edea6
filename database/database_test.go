package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/tasker"
	"github.com/sagarc03/tasker/database"
)

func newTestConfig(tableName string) database.Config {
	return database.Config{
		Type:   "sqlite",
		DSN:    ":memory:",
		Tables: tasker.Tables{Tasks: tableName},
	}
}

func TestConnect_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := database.Connect(ctx, newTestConfig("connect_test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assert.NoError(t, db.Ping(ctx))
}

func TestConnect_InvalidType(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig("tasks")
	cfg.Type = "dynamodb"

	_, err := database.Connect(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestConnect_InvalidTable(t *testing.T) {
	t.Parallel()

	_, err := database.Connect(context.Background(), newTestConfig("Bad-Name"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tasks table name")
}

func TestOpen_AutoMigrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := newTestConfig("open_test")
	cfg.AutoMigrate = true

	db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := db.GetRepo()
	_, err = repo.Put(ctx, tasker.Task{TaskID: "t1", UserID: "u1", Description: "d", CreatedAt: time.Now()})
	require.NoError(t, err)

	exists, err := repo.Get(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "d", exists.Description)
}

func TestOpen_WithoutMigrationFailsValidation(t *testing.T) {
	t.Parallel()

	_, err := database.Open(context.Background(), newTestConfig("unmigrated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate sqlite schema")
}

func TestOpen_FileBackedReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cfg := database.Config{
		Type:        "sqlite",
		DSN:         filepath.Join(t.TempDir(), "tasker.db"),
		Tables:      tasker.Tables{Tasks: "tasks"},
		AutoMigrate: true,
	}

	db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	_, err = db.GetRepo().Put(ctx, tasker.Task{TaskID: "t1", UserID: "u1", Description: "persisted"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg.AutoMigrate = false
	db, err = database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tasks, err := db.GetRepo().ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "persisted", tasks[0].Description)
}
