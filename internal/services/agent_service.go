// Package services – AgentService
//
// AgentService registers agents and lists them. Name uniqueness is enforced
// by the store's unique index; a violation surfaces as ErrDuplicateAgent.
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/events"
	"github.com/tbourn/go-ticket-backend/internal/repo"
)

// AgentRepo defines the repository contract required by AgentService.
type AgentRepo interface {
	// CreateAgent inserts a and returns repo.ErrDuplicate on a name clash.
	CreateAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error

	// GetAgent fetches an agent by id.
	GetAgent(ctx context.Context, db *gorm.DB, id int64) (*domain.Agent, error)

	// ListAgents returns agents, optionally restricted to one group.
	ListAgents(ctx context.Context, db *gorm.DB, group string) ([]domain.Agent, error)

	// AgentsStats returns count and highest id for ETag computation.
	AgentsStats(ctx context.Context, db *gorm.DB, group string) (int64, int64, error)
}

// AgentService provides agent registration and listing.
type AgentService struct {
	DB     *gorm.DB
	Repo   AgentRepo
	Events events.Publisher
}

// NewAgentService wires an AgentService; a nil publisher becomes events.Nop.
func NewAgentService(db *gorm.DB, r AgentRepo, pub events.Publisher) *AgentService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &AgentService{DB: db, Repo: r, Events: pub}
}

// Create registers a new agent. A nil group is stored as NULL.
func (s *AgentService) Create(ctx context.Context, name string, group *string) (*domain.Agent, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyAgentName
	}
	a := &domain.Agent{AgentName: name, AgentGroup: group}
	if err := s.Repo.CreateAgent(ctx, s.DB, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			agentsCreated.WithLabelValues(outcomeDuplicate).Inc()
			return nil, ErrDuplicateAgent
		}
		agentsCreated.WithLabelValues(outcomeError).Inc()
		return nil, err
	}
	agentsCreated.WithLabelValues(outcomeOK).Inc()
	zerolog.Ctx(ctx).Info().Int64("agent_id", a.AgentID).Str("agent_name", a.AgentName).Msg("agent created")
	if s.Events != nil {
		s.Events.Publish(ctx, "agent-"+strconv.FormatInt(a.AgentID, 10), events.Event{
			Name:       events.AgentCreated,
			OccurredAt: time.Now().UTC(),
			Data:       a,
		})
	}
	return a, nil
}

// Get returns one agent or ErrAgentNotFound.
func (s *AgentService) Get(ctx context.Context, id int64) (*domain.Agent, error) {
	a, err := s.Repo.GetAgent(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrAgentNotFound
	}
	return a, err
}

// List returns all agents, or only those in group when it is non-empty.
func (s *AgentService) List(ctx context.Context, group string) ([]domain.Agent, error) {
	return s.Repo.ListAgents(ctx, s.DB, strings.TrimSpace(group))
}

// Stats exposes count and highest id for ETag computation.
func (s *AgentService) Stats(ctx context.Context, group string) (int64, int64, error) {
	return s.Repo.AgentsStats(ctx, s.DB, strings.TrimSpace(group))
}
