package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tbourn/go-ticket-backend/internal/domain"
)

func TestMigrateUp_CreatesSchema_AndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "mig.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	n, err := MigrateUp(ctx, db, DriverSQLite)
	if err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 migration applied, got %d", n)
	}

	m := db.Migrator()
	for _, tbl := range []any{&domain.Ticket{}, &domain.Agent{}, &domain.Idempotency{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T", tbl)
		}
	}
	if !m.HasIndex(&domain.Agent{}, "ux_agents_name") {
		t.Fatal("expected ux_agents_name index")
	}

	again, err := MigrateUp(ctx, db, DriverSQLite)
	if err != nil {
		t.Fatalf("second MigrateUp: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected no pending migrations, got %d", again)
	}

	st, err := MigrateStatus(ctx, db, DriverSQLite)
	if err != nil {
		t.Fatalf("MigrateStatus: %v", err)
	}
	if len(st) != 1 || !st[0].Applied || st[0].Version != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}

	// The migrated schema must accept what GORM writes.
	if err := CreateAgent(ctx, db, &domain.Agent{AgentName: "ann"}); err != nil {
		t.Fatalf("CreateAgent on migrated schema: %v", err)
	}
	if err := CreateAgent(ctx, db, &domain.Agent{AgentName: "ann"}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate on migrated schema, got %v", err)
	}
}

func TestMigrateUp_UnsupportedDriver(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	if _, err := MigrateUp(context.Background(), db, "mysql"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
