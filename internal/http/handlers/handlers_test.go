package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/http/middleware"
	"github.com/tbourn/go-ticket-backend/internal/repo"
	"github.com/tbourn/go-ticket-backend/internal/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:h_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type agentStore struct{}

func (agentStore) CreateAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error {
	return repo.CreateAgent(ctx, db, a)
}
func (agentStore) GetAgent(ctx context.Context, db *gorm.DB, id int64) (*domain.Agent, error) {
	return repo.GetAgent(ctx, db, id)
}
func (agentStore) ListAgents(ctx context.Context, db *gorm.DB, group string) ([]domain.Agent, error) {
	return repo.ListAgents(ctx, db, group)
}
func (agentStore) AgentsStats(ctx context.Context, db *gorm.DB, group string) (int64, int64, error) {
	return repo.AgentsStats(ctx, db, group)
}

type idemStore struct{ db *gorm.DB }

func (s idemStore) Get(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error) {
	return repo.GetIdempotency(ctx, s.db, scope, key, now)
}
func (s idemStore) Put(ctx context.Context, scope, key string, id int64, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, scope, key, id, status, time.Hour)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// newTestRouter wires real services over a fresh in-memory database.
func newTestRouter(t *testing.T, legacy bool) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	store := idemStore{db: db}
	h := New(
		services.NewTicketService(db, nil),
		services.NewAgentService(db, agentStore{}, nil),
		Options{Legacy: legacy, Idem: store},
	)

	lookup := func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
		_, err := store.Get(ctx, scope, key, now)
		return err == nil, err
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, lookup))
	r.POST("/tickets/", h.CreateTicket)
	r.GET("/tickets/", h.ListTickets)
	r.PUT("/tickets/:id", h.UpdateTicket)
	r.GET("/tickets/:id/assign/:agent_id", h.AssignAgent)
	r.POST("/tickets/:id/assign/:agent_id", h.AssignAgent)
	r.POST("/agents/", h.CreateAgent)
	r.GET("/agents/", h.ListAgents)
	return r, db
}

func do(r http.Handler, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ticketBody(group, status string) map[string]string {
	return map[string]string{
		"email":           "jo@example.com",
		"description":     "printer jammed",
		"toassign":        "",
		"status":          status,
		"ticket_priority": "low",
		"ticket_group":    group,
		"remark":          "",
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}
