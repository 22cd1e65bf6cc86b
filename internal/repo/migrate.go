package repo

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// MigrationState is one row of migration status output.
type MigrationState struct {
	Version int64
	Path    string
	Applied bool
}

func migrationProvider(db *gorm.DB, driver string) (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case "", DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, sqlDB, sub)
}

// MigrateUp applies every pending versioned migration for the given driver.
// It returns the number of migrations applied.
func MigrateUp(ctx context.Context, db *gorm.DB, driver string) (int, error) {
	p, err := migrationProvider(db, driver)
	if err != nil {
		return 0, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrate up: %w", err)
	}
	l := zerolog.Ctx(ctx)
	for _, r := range results {
		l.Info().
			Int64("version", r.Source.Version).
			Str("path", r.Source.Path).
			Dur("took", r.Duration).
			Msg("migration applied")
	}
	return len(results), nil
}

// MigrateStatus reports which migrations have been applied.
func MigrateStatus(ctx context.Context, db *gorm.DB, driver string) ([]MigrationState, error) {
	p, err := migrationProvider(db, driver)
	if err != nil {
		return nil, err
	}
	st, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate status: %w", err)
	}
	out := make([]MigrationState, 0, len(st))
	for _, s := range st {
		out = append(out, MigrationState{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}
