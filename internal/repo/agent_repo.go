// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains agent persistence.
package repo

import (
	"context"
	"gorm.io/gorm"

	"github.com/tbourn/go-ticket-backend/internal/domain"
)

// CreateAgent inserts a. The unique index on agent_name is the only
// duplicate check, so concurrent creates cannot both succeed.
func CreateAgent(ctx context.Context, db *gorm.DB, a *domain.Agent) error {
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetAgent loads one agent by agent_id.
func GetAgent(ctx context.Context, db *gorm.DB, id int64) (*domain.Agent, error) {
	var a domain.Agent
	if err := db.WithContext(ctx).First(&a, "agent_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAgents returns agents in ascending agent_id order, restricted to group
// when it is non-empty.
func ListAgents(ctx context.Context, db *gorm.DB, group string) ([]domain.Agent, error) {
	q := db.WithContext(ctx).Model(&domain.Agent{}).Order("agent_id ASC")
	if group != "" {
		q = q.Where("agent_group = ?", group)
	}
	out := make([]domain.Agent, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
