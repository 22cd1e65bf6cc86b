// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains ticket persistence.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-ticket-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup or update matches no row.
	ErrNotFound = gorm.ErrRecordNotFound
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate")
	// ErrConflict is returned when a conditional update loses to a concurrent change.
	ErrConflict = errors.New("conflict")
)

// TicketFilter narrows ticket listings. Zero values mean "no constraint";
// Limit <= 0 returns every matching row.
type TicketFilter struct {
	Status string
	Group  string
	Offset int
	Limit  int
}

func (f TicketFilter) apply(q *gorm.DB) *gorm.DB {
	if s := strings.TrimSpace(f.Status); s != "" {
		q = q.Where("status = ?", s)
	}
	if g := strings.TrimSpace(f.Group); g != "" {
		q = q.Where("ticket_group = ?", g)
	}
	return q
}

// CreateTicket inserts t and fills in its generated ID.
func CreateTicket(ctx context.Context, db *gorm.DB, t *domain.Ticket) error {
	return db.WithContext(ctx).Create(t).Error
}

// GetTicket loads one ticket by id.
func GetTicket(ctx context.Context, db *gorm.DB, id int64) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTickets returns tickets matching f in ascending id order.
func ListTickets(ctx context.Context, db *gorm.DB, f TicketFilter) ([]domain.Ticket, error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.Ticket{})).Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	out := make([]domain.Ticket, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountTickets counts tickets matching f, ignoring paging.
func CountTickets(ctx context.Context, db *gorm.DB, f TicketFilter) (int64, error) {
	var n int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Ticket{})).Count(&n).Error
	return n, err
}

// UpdateTicketStatus sets status and remark on ticket id. It returns
// ErrNotFound when no row has that id.
func UpdateTicketStatus(ctx context.Context, db *gorm.DB, id int64, status, remark string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"remark":     remark,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignTicket writes the agent's display name into toassign, but only while
// the ticket still belongs to group. It returns ErrConflict when the guard
// matched no row.
func AssignTicket(ctx context.Context, db *gorm.DB, id int64, group, agentName string, now time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ? AND ticket_group = ?", id, group).
		Updates(map[string]any{
			"toassign":   agentName,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}
