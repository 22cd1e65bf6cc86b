// Package services – TicketService
//
// This file implements TicketService, which owns the ticket lifecycle:
// creation with a fixed closing deadline, listing, status/remark updates, and
// agent assignment. Assignment runs its read-check-write inside a single
// transaction with a group-guarded update so a concurrent regroup cannot
// leave a ticket assigned to an agent from another group.
//
// Observability: public methods open OpenTelemetry spans; successful writes
// publish events and bump Prometheus counters.
package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/events"
	"github.com/tbourn/go-ticket-backend/internal/repo"
)

// DefaultClosingWindow is the time between creation and closing_time.
const DefaultClosingWindow = 24 * time.Hour

// AssignedMessage is returned to clients after a successful assignment.
const AssignedMessage = "Agent assigned to ticket successfully"

// TicketService coordinates ticket persistence.
type TicketService struct {
	DB     *gorm.DB
	Events events.Publisher

	// ClosingWindow is added to created_date to obtain closing_time.
	ClosingWindow time.Duration
	// Now returns the current time; tests may pin it.
	Now func() time.Time
}

// NewTicketService returns a TicketService with a 24h closing window, a UTC
// clock, and a no-op publisher when pub is nil.
func NewTicketService(db *gorm.DB, pub events.Publisher) *TicketService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &TicketService{
		DB:            db,
		Events:        pub,
		ClosingWindow: DefaultClosingWindow,
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *TicketService) window() time.Duration {
	if s.ClosingWindow > 0 {
		return s.ClosingWindow
	}
	return DefaultClosingWindow
}

func (s *TicketService) publish(ctx context.Context, name string, t *domain.Ticket) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(ctx, "ticket-"+strconv.FormatInt(t.ID, 10), events.Event{
		Name:       name,
		OccurredAt: s.now(),
		Data:       t,
	})
}

var tracer = otel.Tracer("services")

// Create stamps created_date and closing_time on in and inserts it. Every
// other field is stored exactly as given.
func (s *TicketService) Create(ctx context.Context, in domain.Ticket) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketService.Create")
	defer span.End()

	now := s.now()
	t := in
	t.ID = 0
	t.CreatedDate = now
	t.ClosingTime = now.Add(s.window())
	t.UpdatedAt = now

	if err := repo.CreateTicket(ctx, s.DB, &t); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("ticket.id", t.ID))
	ticketsCreated.Inc()
	zerolog.Ctx(ctx).Info().Int64("ticket_id", t.ID).Str("ticket_group", t.TicketGroup).Msg("ticket created")
	s.publish(ctx, events.TicketCreated, &t)
	return &t, nil
}

// Get returns one ticket or ErrTicketNotFound.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := repo.GetTicket(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// List returns tickets matching f in id order.
func (s *TicketService) List(ctx context.Context, f repo.TicketFilter) ([]domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketService.List",
		trace.WithAttributes(
			attribute.String("filter.status", f.Status),
			attribute.String("filter.group", f.Group),
		))
	defer span.End()
	return repo.ListTickets(ctx, s.DB, f)
}

// ListPage returns one page of tickets matching f plus the total match count.
// page is 1-based; invalid values fall back to page 1 with 20 items.
func (s *TicketService) ListPage(ctx context.Context, f repo.TicketFilter, page, pageSize int) ([]domain.Ticket, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountTickets(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Ticket{}, 0, nil
	}
	f.Offset = (page - 1) * pageSize
	f.Limit = pageSize
	items, err := s.List(ctx, f)
	return items, total, err
}

// Stats exposes count and last-modified for ETag computation.
func (s *TicketService) Stats(ctx context.Context, f repo.TicketFilter) (int64, *time.Time, error) {
	return repo.TicketsStats(ctx, s.DB, f)
}

// UpdateStatus overwrites status and remark of ticket id and returns the
// persisted row. No other field changes.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, status, remark string) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketService.UpdateStatus",
		trace.WithAttributes(attribute.Int64("ticket.id", id)))
	defer span.End()

	var out *domain.Ticket
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.UpdateTicketStatus(ctx, tx, id, status, remark, s.now()); err != nil {
			return err
		}
		t, err := repo.GetTicket(ctx, tx, id)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	switch {
	case errors.Is(err, repo.ErrNotFound):
		ticketsUpdated.WithLabelValues(outcomeNotFound).Inc()
		return nil, ErrTicketNotFound
	case err != nil:
		ticketsUpdated.WithLabelValues(outcomeError).Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	ticketsUpdated.WithLabelValues(outcomeOK).Inc()
	zerolog.Ctx(ctx).Info().Int64("ticket_id", id).Str("status", status).Msg("ticket updated")
	s.publish(ctx, events.TicketUpdated, out)
	return out, nil
}

// Assign copies the name of agent agentID into ticket id's toassign field,
// provided both exist and share a group. Repeating a successful assignment
// leaves the ticket unchanged.
func (s *TicketService) Assign(ctx context.Context, id, agentID int64) (*domain.Ticket, error) {
	ctx, span := tracer.Start(ctx, "TicketService.Assign",
		trace.WithAttributes(
			attribute.Int64("ticket.id", id),
			attribute.Int64("agent.id", agentID),
		))
	defer span.End()

	var out *domain.Ticket
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := repo.GetTicket(ctx, tx, id)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTicketNotFound
		}
		if err != nil {
			return err
		}

		a, err := repo.GetAgent(ctx, tx, agentID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAgentNotFound
		}
		if err != nil {
			return err
		}

		if !a.InGroup(t.TicketGroup) {
			return ErrGroupMismatch
		}

		// ErrConflict means the ticket was regrouped after it was read.
		if err := repo.AssignTicket(ctx, tx, t.ID, t.TicketGroup, a.AgentName, s.now()); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return ErrGroupMismatch
			}
			return err
		}

		out, err = repo.GetTicket(ctx, tx, id)
		return err
	})

	l := zerolog.Ctx(ctx)
	switch {
	case errors.Is(err, ErrTicketNotFound):
		assignments.WithLabelValues(outcomeNotFound).Inc()
		return nil, err
	case errors.Is(err, ErrAgentNotFound):
		assignments.WithLabelValues(outcomeAgentNotFound).Inc()
		return nil, err
	case errors.Is(err, ErrGroupMismatch):
		assignments.WithLabelValues(outcomeMismatch).Inc()
		l.Info().Int64("ticket_id", id).Int64("agent_id", agentID).Msg("assignment rejected: group mismatch")
		return nil, err
	case err != nil:
		assignments.WithLabelValues(outcomeError).Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	assignments.WithLabelValues(outcomeOK).Inc()
	l.Info().Int64("ticket_id", id).Int64("agent_id", agentID).Msg("agent assigned")
	s.publish(ctx, events.TicketAssigned, out)
	return out, nil
}
