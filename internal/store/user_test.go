package store

import (
	"database/sql"
	"testing"

	"github.com/rowanhale/tally/internal/database"
	"github.com/rowanhale/tally/internal/period"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserCreateAndGet(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create("alice", "hash-of-secret")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if u.PasswordHash != "hash-of-secret" {
		t.Errorf("password_hash = %q, want %q", u.PasswordHash, "hash-of-secret")
	}

	got, err := us.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got == nil || got.ID != u.ID {
		t.Errorf("get by username = %+v, want id %d", got, u.ID)
	}

	byID, err := us.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Username != "alice" {
		t.Errorf("get by id = %+v", byID)
	}
}

func TestUserNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	got, err := us.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown username, got %+v", got)
	}
}

func TestUsernameUnique(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	if _, err := us.Create("bob", "h1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := us.Create("bob", "h2"); err == nil {
		t.Fatal("expected unique constraint violation for duplicate username")
	}
}

func TestUserDeleteCascadesToHabits(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	hs := NewHabitStore(db)

	u, err := us.Create("carol", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	h, err := hs.Create(u.ID, "Journal", "", period.Daily, mustParse(t, "2026-01-01T08:00:00Z"))
	if err != nil {
		t.Fatalf("create habit: %v", err)
	}

	if err := us.Delete(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	got, err := hs.GetByID(h.ID, u.ID)
	if err != nil {
		t.Fatalf("get habit: %v", err)
	}
	if got != nil {
		t.Error("habit should be gone after owner deletion")
	}
}
