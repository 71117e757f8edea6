// Package database provides a unified interface for connecting to task storage backends.
//
// # Supported Backends
//
//   - PostgreSQL: pgx connection pool, for deployed environments
//   - SQLite: modernc.org/sqlite, for development and single-node deployments
//
// # Usage
//
//	cfg := database.Config{
//	    Type:        "sqlite",
//	    DSN:         "tasker.db",
//	    Tables:      tasker.Tables{Tasks: "tasks"},
//	    AutoMigrate: true,
//	}
//
//	db, err := database.Open(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	svc, err := tasker.NewTaskService(db.GetRepo(), signer, tasker.ServiceConfig{})
//
// Connect only opens the backend. Open additionally pings, runs migrations
// when AutoMigrate is set, and validates the schema.
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
