package pg

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/benwis/gatehouse/migrations"
)

// Migrate applies the embedded schema migrations. Safe to run on every
// start: goose tracks applied versions in cfg.MigrationsTable.
func Migrate(ctx context.Context, cfg Config, log *slog.Logger) error {
	db, err := goose.OpenDBWithDriver("pgx", cfg.ConnectionString)
	if err != nil {
		return fmt.Errorf("pg: open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(cfg.MigrationsTable)
	goose.SetLogger(gooseLogger{log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("pg: set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("pg: apply migrations: %w", err)
	}
	return nil
}

// gooseLogger adapts slog to goose's printf-style logger.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}
