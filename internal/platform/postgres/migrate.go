package postgres

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/users/*.sql migrations/content/*.sql
var migrationsFS embed.FS

// MigrateUsers applies the users service schema migrations.
func MigrateUsers(db *sql.DB, logger *slog.Logger) error {
	return migrate(db, logger, "migrations/users")
}

// MigrateContent applies the content service schema migrations.
func MigrateContent(db *sql.DB, logger *slog.Logger) error {
	return migrate(db, logger, "migrations/content")
}

func migrate(db *sql.DB, logger *slog.Logger, dir string) error {
	if logger == nil {
		logger = slog.Default()
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&slogGooseLogger{logger: logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations from %s: %w", dir, err)
	}

	logger.Info("migrations applied", slog.String("dir", dir))
	return nil
}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), slog.String("component", "goose"))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...), slog.String("component", "goose"))
}
