// Package cmd holds the ticketdesk command-line interface: the HTTP server
// (default) and schema migrations.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-ticket-backend/internal/config"
	"github.com/tbourn/go-ticket-backend/internal/repo"
	"github.com/tbourn/go-ticket-backend/internal/sysutil"
)

// Version is stamped at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

const serviceName = "ticketdesk"

var rootCmd = &cobra.Command{
	Use:           "ticketdesk",
	Short:         "Ticket desk API: tickets, agents and group-scoped assignment",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig reads configuration and installs the global logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	sysutil.SetupLogger(os.Stderr, cfg.LogLevel, serviceName, cfg.LogPretty)
	return cfg, nil
}

// openDB opens the configured store, creating the Postgres database first
// when it does not exist yet.
func openDB(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverPostgres {
		if err := repo.EnsurePostgresDatabase(ctx, cfg.DatabaseURL); err != nil {
			log.Warn().Err(err).Msg("could not ensure postgres database exists")
		}
	}
	db, err := repo.Open(repo.Options{
		Driver:  cfg.DBDriver,
		Path:    cfg.DBPath,
		DSN:     cfg.DatabaseURL,
		Tracing: cfg.OTEL.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	return db, nil
}
