package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

//go:embed migrations/*.sql
var migrationFS embed.FS

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func setupGoose(log *slog.Logger) error {
	goose.SetBaseFS(migrationFS)
	goose.SetTableName(MigrationTableName)
	goose.SetLogger(gooseLogger{log: log.With(slog.String("component", "migrations"))})
	return goose.SetDialect("postgres")
}

// Migrate runs a goose command ("up", "down", "status", "version", "redo",
// "reset") against db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger, command string, args ...string) error {
	if err := setupGoose(log); err != nil {
		return fmt.Errorf("failed to configure migrations: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, "migrations", args...); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	return nil
}

// CreateMigration writes a new timestamped SQL migration into dir.
func CreateMigration(dir, name string) error {
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration %q: %w", name, err)
	}
	return nil
}
