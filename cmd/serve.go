package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-ticket-backend/internal/events"
	httpapi "github.com/tbourn/go-ticket-backend/internal/http"
	"github.com/tbourn/go-ticket-backend/internal/observability"
	"github.com/tbourn/go-ticket-backend/internal/repo"
	"github.com/tbourn/go-ticket-backend/internal/sysutil"
)

const idempotencyPurgeEvery = 10 * time.Minute

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "listen port (overrides PORT)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, Version)
	if err != nil {
		return err
	}
	defer flush("otel", cfg.ShutdownTimeout, shutdownOTel)

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			log.Warn().Err(err).Msg("db close")
		}
	}()
	if cfg.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			return err
		}
	}

	var pub events.Publisher = events.Nop{}
	if p := events.NewProducer(events.ParseBrokers(cfg.Kafka.Brokers), cfg.Kafka.Topic); p != nil {
		pub = p
		defer func() { _ = p.Close() }()
		log.Info().Str("topic", p.Topic()).Msg("event publishing enabled")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, db, pub, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", sysutil.FirstNonEmpty(flagPort, cfg.Port)),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go purgeIdempotency(ctx, db, idempotencyPurgeEvery)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.DBDriver).
			Str("base_path", cfg.APIBasePath).
			Bool("legacy", cfg.LegacyResponses).
			Str("version", Version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	return flush("http", cfg.ShutdownTimeout, srv.Shutdown)
}

// flush runs fn with a fresh timeout context and logs a failure.
func flush(name string, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	err := fn(ctx)
	if err != nil {
		log.Error().Err(err).Str("component", name).Msg("shutdown")
	}
	return err
}

// purgeIdempotency removes expired Idempotency-Key records until ctx ends.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("idempotency records purged")
			}
		}
	}
}
