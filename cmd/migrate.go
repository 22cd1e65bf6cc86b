package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-ticket-backend/internal/repo"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ctx := log.Logger.WithContext(cmd.Context())
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close(db) }()

	n, err := repo.MigrateUp(ctx, db, cfg.DBDriver)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Int("applied", n).Msg("migrate up: ok")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close(db) }()

	states, err := repo.MigrateStatus(cmd.Context(), db, cfg.DBDriver)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range states {
		mark := "pending"
		if s.Applied {
			mark = "applied"
		}
		fmt.Fprintf(out, "%05d  %-8s  %s\n", s.Version, mark, s.Path)
	}
	return nil
}
