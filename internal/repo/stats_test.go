package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-ticket-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedTicket(t *testing.T, db *gorm.DB, group, status string, updated time.Time) *domain.Ticket {
	t.Helper()
	tk := &domain.Ticket{
		Email:       "user@example.com",
		Description: "printer on fire",
		Status:      status,
		TicketGroup: group,
		CreatedDate: updated,
		ClosingTime: updated.Add(24 * time.Hour),
		UpdatedAt:   updated,
	}
	if err := db.Create(tk).Error; err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return tk
}

func TestTicketsStats_CountError_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	_, _, err := TicketsStats(context.Background(), db, TicketFilter{})
	if err == nil {
		t.Fatalf("expected error due to missing tickets table")
	}
}

func TestTicketsStats_ZeroRows(t *testing.T) {
	db := newTestDB(t, &domain.Ticket{})
	count, maxAt, err := TicketsStats(context.Background(), db, TicketFilter{})
	if err != nil {
		t.Fatalf("TicketsStats error: %v", err)
	}
	if count != 0 || maxAt != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, maxAt)
	}
}

func TestTicketsStats_LatestUpdate_AndFilter(t *testing.T) {
	db := newTestDB(t, &domain.Ticket{})
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	seedTicket(t, db, "IT", "open", base)
	seedTicket(t, db, "IT", "open", base.Add(2*time.Hour))
	seedTicket(t, db, "HR", "closed", base.Add(5*time.Hour))

	count, maxAt, err := TicketsStats(context.Background(), db, TicketFilter{})
	if err != nil {
		t.Fatalf("TicketsStats: %v", err)
	}
	if count != 3 || maxAt == nil || !maxAt.Equal(base.Add(5*time.Hour)) {
		t.Fatalf("unexpected (count=%d, max=%v)", count, maxAt)
	}

	count, maxAt, err = TicketsStats(context.Background(), db, TicketFilter{Group: "IT", Limit: 1})
	if err != nil {
		t.Fatalf("TicketsStats filtered: %v", err)
	}
	if count != 2 || maxAt == nil || !maxAt.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("unexpected filtered (count=%d, max=%v)", count, maxAt)
	}
}

func TestAgentsStats(t *testing.T) {
	db := newTestDB(t, &domain.Agent{})
	ctx := context.Background()

	count, maxID, err := AgentsStats(ctx, db, "")
	if err != nil || count != 0 || maxID != 0 {
		t.Fatalf("expected zero stats, got (%d, %d, %v)", count, maxID, err)
	}

	it := "IT"
	for _, name := range []string{"ann", "bob"} {
		if err := CreateAgent(ctx, db, &domain.Agent{AgentName: name, AgentGroup: &it}); err != nil {
			t.Fatalf("seed agent: %v", err)
		}
	}
	if err := CreateAgent(ctx, db, &domain.Agent{AgentName: "cy"}); err != nil {
		t.Fatalf("seed agent: %v", err)
	}

	count, maxID, err = AgentsStats(ctx, db, "")
	if err != nil || count != 3 || maxID != 3 {
		t.Fatalf("unexpected all-agents stats (%d, %d, %v)", count, maxID, err)
	}
	count, maxID, err = AgentsStats(ctx, db, "IT")
	if err != nil || count != 2 || maxID != 2 {
		t.Fatalf("unexpected IT stats (%d, %d, %v)", count, maxID, err)
	}
}
