package database

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// Logger receives goose progress output.  *logrus.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
}

func prepare(log Logger) error {
	goose.SetBaseFS(migrations)
	if log != nil {
		goose.SetLogger(log)
	}
	return goose.SetDialect("mysql")
}

// MigrateUp applies every pending migration.
func MigrateUp(ctx context.Context, db *sql.DB, log Logger) error {
	if err := prepare(log); err != nil {
		return err
	}
	return errors.Wrap(goose.UpContext(ctx, db, migrationsDir), "migrate up")
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, db *sql.DB, log Logger) error {
	if err := prepare(log); err != nil {
		return err
	}
	return errors.Wrap(goose.DownContext(ctx, db, migrationsDir), "migrate down")
}

// MigrationStatus prints the state of every migration through log.
func MigrationStatus(ctx context.Context, db *sql.DB, log Logger) error {
	if err := prepare(log); err != nil {
		return err
	}
	return errors.Wrap(goose.StatusContext(ctx, db, migrationsDir), "migrate status")
}
