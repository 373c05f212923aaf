package migration

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RunMigrations applies every embedded *.up.sql file not yet recorded
// in schema_migrations, in filename order. Each file runs in its own
// transaction together with its bookkeeping row.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL
		)`,
	).Error; err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	names, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	ctx := context.Background()
	for _, name := range names {
		var applied int64
		if err := db.WithContext(ctx).Raw(
			`SELECT COUNT(1) FROM schema_migrations WHERE version = ?`,
			name,
		).Scan(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			continue
		}

		contents, err := fs.ReadFile(embeddedMigrations, name)
		if err != nil {
			return err
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(contents)).Error; err != nil {
				return fmt.Errorf("apply %s: %w", name, err)
			}
			return tx.Exec(
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
				name,
				time.Now().UTC(),
			).Error
		})
		if err != nil {
			return err
		}
		log.Info("migration applied", zap.String("version", name))
	}
	return nil
}
