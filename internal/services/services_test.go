package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/events"
	"github.com/tbourn/go-ticket-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, key string, ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Name
	}
	return out
}

// storeAgentRepo proxies AgentRepo to the repo package.
type storeAgentRepo struct{}

func (storeAgentRepo) CreateAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error {
	return repo.CreateAgent(ctx, db, a)
}

func (storeAgentRepo) GetAgent(ctx context.Context, db *gorm.DB, id int64) (*domain.Agent, error) {
	return repo.GetAgent(ctx, db, id)
}

func (storeAgentRepo) ListAgents(ctx context.Context, db *gorm.DB, group string) ([]domain.Agent, error) {
	return repo.ListAgents(ctx, db, group)
}

func (storeAgentRepo) AgentsStats(ctx context.Context, db *gorm.DB, group string) (int64, int64, error) {
	return repo.AgentsStats(ctx, db, group)
}

func strptr(s string) *string { return &s }
