// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-ticket-backend/internal/domain"
)

// TicketsStats returns the number of tickets matching f (paging ignored) and
// the greatest UpdatedAt among them. maxUpdatedAt is nil when nothing matches.
func TicketsStats(ctx context.Context, db *gorm.DB, f TicketFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.Ticket{}))

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// AgentsStats returns the number of agents in group (all agents when group
// is empty) and the highest agent_id. Agents are never modified after
// creation, so the pair changes whenever the listing does.
func AgentsStats(ctx context.Context, db *gorm.DB, group string) (count int64, maxID int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Agent{})
	if group != "" {
		q = q.Where("agent_group = ?", group)
	}
	if err = q.Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}
	var row struct {
		AgentID int64
	}
	if err = q.Select("agent_id").Order("agent_id DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return count, row.AgentID, nil
}
