// Package httpapi wires the HTTP transport (Gin) to the ticket and agent
// services, middleware, and route handlers. It owns the cross-cutting
// concerns: tracing, correlation IDs, logging with redaction, panic
// recovery, metrics, idempotency, rate limiting, CORS, compression and
// security headers.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-ticket-backend/docs"
	"github.com/tbourn/go-ticket-backend/internal/config"
	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/events"
	"github.com/tbourn/go-ticket-backend/internal/http/handlers"
	"github.com/tbourn/go-ticket-backend/internal/http/middleware"
	"github.com/tbourn/go-ticket-backend/internal/repo"
	"github.com/tbourn/go-ticket-backend/internal/services"
)

const (
	maxBodyBytes = 1 << 20
	readyTimeout = 2 * time.Second
)

// agentRepoShim adapts the repository free functions to services.AgentRepo.
type agentRepoShim struct{}

func (agentRepoShim) CreateAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error {
	return repo.CreateAgent(ctx, db, a)
}

func (agentRepoShim) GetAgent(ctx context.Context, db *gorm.DB, id int64) (*domain.Agent, error) {
	return repo.GetAgent(ctx, db, id)
}

func (agentRepoShim) ListAgents(ctx context.Context, db *gorm.DB, group string) ([]domain.Agent, error) {
	return repo.ListAgents(ctx, db, group)
}

func (agentRepoShim) AgentsStats(ctx context.Context, db *gorm.DB, group string) (int64, int64, error) {
	return repo.AgentsStats(ctx, db, group)
}

// idempotencyStore persists Idempotency-Key outcomes for handlers.
type idempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func (s idempotencyStore) Get(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, s.db, scope, key, now)
}

// Put records the outcome. A concurrent request that stored the same key
// first wins; its record stays.
func (s idempotencyStore) Put(ctx context.Context, scope, key string, resourceID int64, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, scope, key, resourceID, status, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// lookup reports whether an unexpired record exists for (scope, key).
func (s idempotencyStore) lookup(ctx context.Context, scope, key string, now time.Time) (bool, error) {
	_, err := s.Get(ctx, scope, key, now)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs with redaction
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per IP, bypass on replay)
//  9. CORS, gzip and security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, pub events.Publisher, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(middleware.NewRedactor("X-API-Key")))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))

	r.Use(middleware.Metrics())
	r.GET("/metrics", middleware.MetricsHandler())

	idem := idempotencyStore{db: db, ttl: cfg.IdempotencyTTL}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idem.lookup))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		CacheControl: "no-cache",
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := repo.Ping(ctx, db); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("readiness check failed")
			handlers.Fail(c, http.StatusServiceUnavailable, handlers.ErrCodeUnavailable, "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	ticketSvc := services.NewTicketService(db, pub)
	if cfg.ClosingWindow > 0 {
		ticketSvc.ClosingWindow = cfg.ClosingWindow
	}
	agentSvc := services.NewAgentService(db, agentRepoShim{}, pub)
	h := handlers.New(ticketSvc, agentSvc, handlers.Options{
		Legacy: cfg.LegacyResponses,
		Idem:   idem,
	})

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Collections answer with and without the trailing slash.
		for _, p := range []string{"/tickets", "/tickets/"} {
			api.POST(p, h.CreateTicket)
			api.GET(p, h.ListTickets)
		}
		api.PUT("/tickets/:id", h.UpdateTicket)
		api.GET("/tickets/:id/assign/:agent_id", h.AssignAgent)
		api.POST("/tickets/:id/assign/:agent_id", h.AssignAgent)

		for _, p := range []string{"/agents", "/agents/"} {
			api.POST(p, h.CreateAgent)
			api.GET(p, h.ListAgents)
		}
	}
}

// corsMiddleware returns the CORS chain. With no allowlist every origin is
// accepted and ACAO is "*" even without an Origin header; otherwise allowed
// origins are echoed back.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey},
		ExposeHeaders:    []string{"X-Request-ID", "X-Total-Count", "ETag", "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody caps the request body at maxBytes via http.MaxBytesReader;
// reads past the cap fail and surface as 400 from JSON binding.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
