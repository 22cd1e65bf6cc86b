// Package handlers exposes the ticket and agent REST endpoints.
//
// Handlers are transport-thin: they bind and validate input, call the
// services, and translate results into HTTP responses. When Legacy is set,
// status codes and business-failure bodies follow the original API, where
// duplicate names and failed assignments come back as 200 with a message.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/repo"
)

//
// Service contracts (context-aware)
//

// TicketService defines the ticket operations consumed by HTTP handlers.
type TicketService interface {
	Create(ctx context.Context, in domain.Ticket) (*domain.Ticket, error)
	Get(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, f repo.TicketFilter) ([]domain.Ticket, error)
	ListPage(ctx context.Context, f repo.TicketFilter, page, pageSize int) ([]domain.Ticket, int64, error)
	Stats(ctx context.Context, f repo.TicketFilter) (int64, *time.Time, error)
	UpdateStatus(ctx context.Context, id int64, status, remark string) (*domain.Ticket, error)
	Assign(ctx context.Context, id, agentID int64) (*domain.Ticket, error)
}

// AgentService defines the agent operations consumed by HTTP handlers.
type AgentService interface {
	Create(ctx context.Context, name string, group *string) (*domain.Agent, error)
	Get(ctx context.Context, id int64) (*domain.Agent, error)
	List(ctx context.Context, group string) ([]domain.Agent, error)
	Stats(ctx context.Context, group string) (count, maxID int64, err error)
}

// IdempotencyStore persists the outcome of keyed POST requests.
type IdempotencyStore interface {
	Get(ctx context.Context, scope, key string, now time.Time) (*domain.Idempotency, error)
	Put(ctx context.Context, scope, key string, resourceID int64, status int) error
}

//
// Handler wiring
//

// Options tunes response behavior.
type Options struct {
	// Legacy reproduces the original response shapes and status codes.
	Legacy bool
	// Idem enables Idempotency-Key replays on create endpoints when non-nil.
	Idem IdempotencyStore
}

// Handlers groups the ticket and agent endpoints.
type Handlers struct {
	tickets TicketService
	agents  AgentService
	opts    Options
}

// New constructs Handlers bound to the given services.
func New(tickets TicketService, agents AgentService, opts Options) *Handlers {
	return &Handlers{tickets: tickets, agents: agents, opts: opts}
}

// createdStatus is 201, or 200 in legacy mode.
func (h *Handlers) createdStatus() int {
	if h.opts.Legacy {
		return http.StatusOK
	}
	return http.StatusCreated
}
