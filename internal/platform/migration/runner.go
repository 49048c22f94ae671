// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration brings the campus schema up to date with golang-migrate.

It runs once at startup, before the HTTP server accepts traffic. A database
left dirty by an interrupted migration stops the boot; it has to be repaired
by hand with the migrate CLI.
*/
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies every pending migration found under dir to the database at dsn.
func RunUp(dsn, dir string, logger *slog.Logger) (err error) {
	migrator, err := migrate.New("file://"+dir, ToPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration: open: %w", err)
	}
	migrator.Log = slogAdapter{logger}
	defer func() {
		err = errors.Join(err, closeMigrator(migrator))
	}()

	from, err := version(migrator)
	if err != nil {
		return err
	}

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration: up from version %d: %w", from, err)
	}

	to, err := version(migrator)
	if err != nil {
		return err
	}
	logger.Info("migration_applied", slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))
	return nil
}

// version returns the applied version, 0 for an empty database, and fails on a dirty one.
func version(migrator *migrate.Migrate) (uint, error) {
	current, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return 0, fmt.Errorf("migration: database is dirty at version %d", current)
	}
	return current, nil
}

func closeMigrator(migrator *migrate.Migrate) error {
	sourceErr, databaseErr := migrator.Close()
	if sourceErr != nil || databaseErr != nil {
		return fmt.Errorf("migration: close: %w", errors.Join(sourceErr, databaseErr))
	}
	return nil
}

// ToPgx5DSN switches a postgres:// or postgresql:// URL to the pgx5:// scheme
// registered by the golang-migrate pgx/v5 driver. Other inputs pass through.
func ToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogAdapter routes golang-migrate's progress lines to slog at debug level.
type slogAdapter struct{ logger *slog.Logger }

func (a slogAdapter) Printf(format string, args ...any) {
	a.logger.Debug("migration_progress", slog.String("line", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (a slogAdapter) Verbose() bool { return false }
