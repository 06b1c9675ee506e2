package auth

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryUserStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()

	for _, u := range []*User{
		{ID: "u1", Email: "alice@x.com", PasswordHash: "h", Roles: []Role{RoleBasic}},
		{ID: "u2", Email: "bob@x.com", PasswordHash: "h", Roles: []Role{RoleBasic}},
	} {
		if err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create %s: %v", u.ID, err)
		}
	}

	if err := store.Create(ctx, &User{ID: "u3", Email: "alice@x.com", PasswordHash: "h"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate email, got %v", err)
	}

	got, err := store.FindByEmail(ctx, " ALICE@x.com ")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != "u1" {
		t.Fatalf("unexpected user: %+v", got)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "u1" || list[1].ID != "u2" {
		t.Fatalf("insertion order not preserved: %+v", list)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.FindByEmail(ctx, "alice@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated delete, got %v", err)
	}
}

func TestMemoryUserStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUserStore()
	if err := store.Create(ctx, &User{ID: "u1", Email: "alice@x.com", PasswordHash: "h", Roles: []Role{RoleBasic}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Find(ctx, "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	got.Email = "mutated@x.com"
	got.Roles[0] = RoleAdmin

	again, err := store.Find(ctx, "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if again.Email != "alice@x.com" || again.Roles[0] != RoleBasic {
		t.Fatalf("stored record was mutated through a returned copy: %+v", again)
	}
}

func TestMemoryRefreshSet(t *testing.T) {
	ctx := context.Background()
	set := NewMemoryRefreshSet()

	if err := set.Add(ctx, "t1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ok, err := set.Contains(ctx, "t1")
	if err != nil || !ok {
		t.Fatalf("Contains = %v, %v", ok, err)
	}
	if n, _ := set.Len(ctx); n != 1 {
		t.Fatalf("Len = %d", n)
	}

	if err := set.Remove(ctx, "t1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ok, _ := set.Contains(ctx, "t1"); ok {
		t.Fatal("token still present after Remove")
	}
	// Removing an absent token is a no-op.
	if err := set.Remove(ctx, "t1"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}
