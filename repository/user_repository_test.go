package repository

import (
	"context"
	"testing"
)

func TestUserRepository_CRUDAndQueries(t *testing.T) {
	s := openStore(t, "userrepo")
	repo := s.Users
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Username != "alice" || u.Role != "user" {
		t.Fatalf("unexpected created user: %+v", u)
	}

	g, err := repo.GetByID(ctx, u.ID)
	if err != nil || g == nil || g.Username != "alice" || g.Wallet != nil {
		t.Fatalf("get by id: %v %+v", err, g)
	}

	g2, err := repo.GetByUsername(ctx, "alice")
	if err != nil || g2 == nil || g2.ID != u.ID {
		t.Fatalf("get by username: %v %+v", err, g2)
	}

	list, err := repo.List(ctx, 10, 0)
	if err != nil || len(list) == 0 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}

	if err := repo.UpdateRoleByUsername(ctx, "alice", "admin"); err != nil {
		t.Fatalf("update role: %v", err)
	}
	g3, _ := repo.GetByUsername(ctx, "alice")
	if g3.Role != "admin" {
		t.Fatalf("role not updated: %+v", g3)
	}

	gone, err := repo.GetByID(ctx, 987654)
	if err != nil || gone != nil {
		t.Fatalf("expected missing user, got: %+v err=%v", gone, err)
	}
}
