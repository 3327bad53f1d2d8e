package repo

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"tradepro/migrations"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func migratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return applyMigrations(ctx, db, "postgres", "postgres")
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	return applyMigrations(ctx, db, "sqlite3", "sqlite")
}

// applyMigrations runs every pending goose migration under dir of the embedded FS.
func applyMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Files)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("run %s migrations: %w", dir, err)
	}
	return nil
}
