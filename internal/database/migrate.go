package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"onyx-tutor/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Oracle reports ORA-00955 when the object already exists.
const oraNameInUse = "ORA-00955"

// RunMigrations executes every embedded *.up.sql file in name order.
// Statements that create an existing object are skipped, so reruns are safe.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	return runMigrations(ctx, db, migrationFiles)
}

func runMigrations(ctx context.Context, db *sqlx.DB, fsys fs.FS) error {
	appLogger := logger.Named("migrate")

	names, err := fs.Glob(fsys, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("could not list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}

		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				if strings.Contains(err.Error(), oraNameInUse) {
					appLogger.Debug("Object already exists, skipping statement", zap.String("migration", name))
					continue
				}
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}

		appLogger.Info("Executed migration", zap.String("migration", name))
	}

	appLogger.Info("Migrations completed successfully", zap.Int("count", len(names)))
	return nil
}

// SplitStatements splits a script on semicolons that end a line. Oracle
// drivers accept one statement per Exec.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(current.String()), ";")
			stmts = append(stmts, stmt)
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
