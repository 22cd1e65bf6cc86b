package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-ticket-backend/internal/domain"
)

func TestCreateAgent_DuplicateName(t *testing.T) {
	db := newTestDB(t, &domain.Agent{})
	ctx := context.Background()

	it := "IT"
	a := &domain.Agent{AgentName: "ann", AgentGroup: &it}
	if err := CreateAgent(ctx, db, a); err != nil {
		t.Fatalf("CreateAgent: %v", err)
	}
	if a.AgentID != 1 {
		t.Fatalf("expected agent_id=1, got %d", a.AgentID)
	}

	hr := "HR"
	err := CreateAgent(ctx, db, &domain.Agent{AgentName: "ann", AgentGroup: &hr})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	var n int64
	db.Model(&domain.Agent{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one agent row, got %d", n)
	}
}

func TestCreateAgent_NoTable(t *testing.T) {
	db := newTestDB(t)
	err := CreateAgent(context.Background(), db, &domain.Agent{AgentName: "x"})
	if err == nil || errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected non-duplicate error, got %v", err)
	}
}

func TestGetAgent(t *testing.T) {
	db := newTestDB(t, &domain.Agent{})
	ctx := context.Background()
	if err := CreateAgent(ctx, db, &domain.Agent{AgentName: "bob"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	a, err := GetAgent(ctx, db, 1)
	if err != nil || a.AgentName != "bob" || a.AgentGroup != nil {
		t.Fatalf("GetAgent: %+v err=%v", a, err)
	}
	if _, err := GetAgent(ctx, db, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAgents_GroupFilter(t *testing.T) {
	db := newTestDB(t, &domain.Agent{})
	ctx := context.Background()
	it, hr := "IT", "HR"
	for _, a := range []*domain.Agent{
		{AgentName: "ann", AgentGroup: &it},
		{AgentName: "bob", AgentGroup: &hr},
		{AgentName: "cy", AgentGroup: &it},
		{AgentName: "dee"},
	} {
		if err := CreateAgent(ctx, db, a); err != nil {
			t.Fatalf("seed %s: %v", a.AgentName, err)
		}
	}

	all, err := ListAgents(ctx, db, "")
	if err != nil || len(all) != 4 {
		t.Fatalf("ListAgents all: n=%d err=%v", len(all), err)
	}
	if all[0].AgentName != "ann" || all[3].AgentName != "dee" {
		t.Fatalf("unexpected order: %+v", all)
	}

	only, _ := ListAgents(ctx, db, "IT")
	if len(only) != 2 || only[0].AgentName != "ann" || only[1].AgentName != "cy" {
		t.Fatalf("unexpected IT agents: %+v", only)
	}

	none, _ := ListAgents(ctx, db, "Ops")
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}
