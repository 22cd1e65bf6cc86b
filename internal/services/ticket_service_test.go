package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/events"
	"github.com/tbourn/go-ticket-backend/internal/repo"
)

var fixedNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func newTicketSvc(t *testing.T) (*TicketService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewTicketService(newTestDB(t), pub)
	svc.Now = func() time.Time { return fixedNow }
	return svc, pub
}

func sampleTicket(group string) domain.Ticket {
	return domain.Ticket{
		Email:          "jo@example.com",
		Description:    "VPN drops every hour",
		ToAssign:       "",
		Status:         "open",
		TicketPriority: "high",
		TicketGroup:    group,
		Remark:         "",
	}
}

func TestNewTicketService_Defaults(t *testing.T) {
	svc := NewTicketService(nil, nil)
	if svc.ClosingWindow != 24*time.Hour {
		t.Fatalf("expected 24h window, got %v", svc.ClosingWindow)
	}
	if _, ok := svc.Events.(events.Nop); !ok {
		t.Fatalf("expected Nop publisher, got %T", svc.Events)
	}
	if svc.Now().Location() != time.UTC {
		t.Fatalf("expected UTC clock")
	}
}

func TestTicketService_Create_StampsDeadline(t *testing.T) {
	svc, pub := newTicketSvc(t)
	before := testutil.ToFloat64(ticketsCreated)

	in := sampleTicket("IT")
	in.ID = 99 // ignored
	got, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("expected store-assigned id 1, got %d", got.ID)
	}
	if !got.CreatedDate.Equal(fixedNow) || !got.ClosingTime.Equal(fixedNow.Add(24*time.Hour)) {
		t.Fatalf("unexpected timestamps: created=%v closing=%v", got.CreatedDate, got.ClosingTime)
	}
	if got.Email != in.Email || got.Description != in.Description || got.TicketPriority != "high" || got.TicketGroup != "IT" {
		t.Fatalf("fields not echoed: %+v", got)
	}

	stored, err := svc.Get(context.Background(), got.ID)
	if err != nil || !stored.ClosingTime.Equal(got.ClosingTime) {
		t.Fatalf("stored ticket mismatch: %+v err=%v", stored, err)
	}

	if after := testutil.ToFloat64(ticketsCreated); after != before+1 {
		t.Fatalf("tickets_created_total not incremented: %v -> %v", before, after)
	}
	if n := pub.names(); len(n) != 1 || n[0] != events.TicketCreated || pub.keys[0] != "ticket-1" {
		t.Fatalf("unexpected events: %v keys=%v", n, pub.keys)
	}
}

func TestTicketService_Create_CustomWindow(t *testing.T) {
	svc, _ := newTicketSvc(t)
	svc.ClosingWindow = 2 * time.Hour
	got, err := svc.Create(context.Background(), sampleTicket("IT"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d := got.ClosingTime.Sub(got.CreatedDate); d != 2*time.Hour {
		t.Fatalf("expected 2h window, got %v", d)
	}
}

func TestTicketService_Create_EmptyStringsAccepted(t *testing.T) {
	svc, _ := newTicketSvc(t)
	got, err := svc.Create(context.Background(), domain.Ticket{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == 0 || got.Email != "" || got.Status != "" {
		t.Fatalf("unexpected ticket: %+v", got)
	}
}

func TestTicketService_ListAfterCreates(t *testing.T) {
	svc, _ := newTicketSvc(t)
	ctx := context.Background()

	empty, err := svc.List(ctx, repo.TicketFilter{})
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %d err=%v", len(empty), err)
	}

	for i := 0; i < 5; i++ {
		g := "IT"
		if i%2 == 1 {
			g = "HR"
		}
		if _, err := svc.Create(ctx, sampleTicket(g)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	all, _ := svc.List(ctx, repo.TicketFilter{})
	if len(all) != 5 {
		t.Fatalf("expected 5 tickets, got %d", len(all))
	}
	hr, _ := svc.List(ctx, repo.TicketFilter{Group: "HR"})
	if len(hr) != 2 {
		t.Fatalf("expected 2 HR tickets, got %d", len(hr))
	}

	page, total, err := svc.ListPage(ctx, repo.TicketFilter{}, 2, 2)
	if err != nil || total != 5 || len(page) != 2 || page[0].ID != 3 {
		t.Fatalf("unexpected page: %+v total=%d err=%v", page, total, err)
	}
	page, total, _ = svc.ListPage(ctx, repo.TicketFilter{Group: "Ops"}, 0, 0)
	if total != 0 || page == nil || len(page) != 0 {
		t.Fatalf("expected empty page, got %+v total=%d", page, total)
	}

	count, maxAt, err := svc.Stats(ctx, repo.TicketFilter{})
	if err != nil || count != 5 || maxAt == nil {
		t.Fatalf("Stats: %d %v %v", count, maxAt, err)
	}
}

func TestTicketService_UpdateStatus_PersistsOnlyStatusAndRemark(t *testing.T) {
	svc, pub := newTicketSvc(t)
	ctx := context.Background()
	created, _ := svc.Create(ctx, sampleTicket("IT"))

	got, err := svc.UpdateStatus(ctx, created.ID, "closed", "rebooted router")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != "closed" || got.Remark != "rebooted router" {
		t.Fatalf("status/remark not applied: %+v", got)
	}
	if got.Email != created.Email || !got.ClosingTime.Equal(created.ClosingTime) || got.TicketGroup != "IT" {
		t.Fatalf("other fields changed: %+v", got)
	}
	if n := pub.names(); n[len(n)-1] != events.TicketUpdated {
		t.Fatalf("expected ticket.updated event, got %v", n)
	}
}

func TestTicketService_UpdateStatus_UnknownID(t *testing.T) {
	svc, pub := newTicketSvc(t)
	ctx := context.Background()
	before := testutil.ToFloat64(ticketsUpdated.WithLabelValues(outcomeNotFound))

	_, err := svc.UpdateStatus(ctx, 42, "closed", "x")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
	all, _ := svc.List(ctx, repo.TicketFilter{})
	if len(all) != 0 {
		t.Fatalf("update of unknown id must not create rows, got %d", len(all))
	}
	if len(pub.names()) != 0 {
		t.Fatalf("no event expected on failure")
	}
	if after := testutil.ToFloat64(ticketsUpdated.WithLabelValues(outcomeNotFound)); after != before+1 {
		t.Fatalf("not_found outcome not counted")
	}
}

func TestTicketService_Assign(t *testing.T) {
	svc, pub := newTicketSvc(t)
	ctx := context.Background()
	agents := NewAgentService(svc.DB, storeAgentRepo{}, nil)

	ticket, _ := svc.Create(ctx, sampleTicket("IT"))
	itAgent, err := agents.Create(ctx, "Ann", strptr("IT"))
	if err != nil {
		t.Fatalf("create agent: %v", err)
	}
	hrAgent, _ := agents.Create(ctx, "Bob", strptr("HR"))
	loner, _ := agents.Create(ctx, "Cy", nil)

	t.Run("group mismatch leaves ticket unchanged", func(t *testing.T) {
		if _, err := svc.Assign(ctx, ticket.ID, hrAgent.AgentID); !errors.Is(err, ErrGroupMismatch) {
			t.Fatalf("expected ErrGroupMismatch, got %v", err)
		}
		if _, err := svc.Assign(ctx, ticket.ID, loner.AgentID); !errors.Is(err, ErrGroupMismatch) {
			t.Fatalf("expected ErrGroupMismatch for NULL group, got %v", err)
		}
		cur, _ := svc.Get(ctx, ticket.ID)
		if cur.ToAssign != "" {
			t.Fatalf("toassign changed on mismatch: %q", cur.ToAssign)
		}
	})

	t.Run("missing ticket or agent", func(t *testing.T) {
		if _, err := svc.Assign(ctx, 999, itAgent.AgentID); !errors.Is(err, ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
		if _, err := svc.Assign(ctx, ticket.ID, 999); !errors.Is(err, ErrAgentNotFound) {
			t.Fatalf("expected ErrAgentNotFound, got %v", err)
		}
	})

	t.Run("matching group assigns and is idempotent", func(t *testing.T) {
		got, err := svc.Assign(ctx, ticket.ID, itAgent.AgentID)
		if err != nil {
			t.Fatalf("Assign: %v", err)
		}
		if got.ToAssign != "Ann" {
			t.Fatalf("expected toassign=Ann, got %q", got.ToAssign)
		}
		again, err := svc.Assign(ctx, ticket.ID, itAgent.AgentID)
		if err != nil || again.ToAssign != "Ann" {
			t.Fatalf("repeat Assign: %+v err=%v", again, err)
		}
	})

	var assigned int
	for _, n := range pub.names() {
		if n == events.TicketAssigned {
			assigned++
		}
	}
	if assigned != 2 {
		t.Fatalf("expected 2 ticket.assigned events, got %d", assigned)
	}
}
