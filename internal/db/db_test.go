package db

import (
	"testing"
)

func TestOpen_AppliesMigrationsAndSeeds(t *testing.T) {
	d, err := Open("file:dbopen?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	v, err := Version(d)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 2 {
		t.Fatalf("version = %d, want 2", v)
	}

	var statuses, payments int
	if err := d.QueryRow(`SELECT COUNT(*) FROM order_statuses`).Scan(&statuses); err != nil {
		t.Fatalf("count statuses: %v", err)
	}
	if err := d.QueryRow(`SELECT COUNT(*) FROM payments`).Scan(&payments); err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if statuses != 7 || payments != 2 {
		t.Fatalf("seed mismatch: statuses=%d payments=%d", statuses, payments)
	}

	// A second run must be a no-op.
	if err := Migrate(d); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
}

func TestRollbackLast(t *testing.T) {
	d, err := Open("file:dbrollback?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	v, err := Version(d)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 1 {
		t.Fatalf("version after rollback = %d, want 1", v)
	}
	var statuses int
	if err := d.QueryRow(`SELECT COUNT(*) FROM order_statuses`).Scan(&statuses); err != nil {
		t.Fatalf("count statuses: %v", err)
	}
	if statuses != 0 {
		t.Fatalf("seed rows should be gone, got %d", statuses)
	}

	// Re-applying restores the seed.
	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if v, _ := Version(d); v != 2 {
		t.Fatalf("version after migrate = %d, want 2", v)
	}
}

func TestOpen_EnforcesForeignKeysOnEveryConnection(t *testing.T) {
	d, err := Open("file:dbfk?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	d.SetMaxOpenConns(4)

	for i := 0; i < 4; i++ {
		var on int
		if err := d.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
			t.Fatalf("pragma: %v", err)
		}
		if on != 1 {
			t.Fatalf("foreign_keys = %d, want 1", on)
		}
	}
	if _, err := d.Exec(`INSERT INTO shops (seller_id) VALUES (987654)`); err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestWithConnParams(t *testing.T) {
	if got := withConnParams("orders.db"); got != "orders.db?_foreign_keys=on&_busy_timeout=5000" {
		t.Fatalf("plain path: %s", got)
	}
	if got := withConnParams("file:x?mode=memory"); got != "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000" {
		t.Fatalf("uri: %s", got)
	}
}
