package auth

import (
	"errors"
	"testing"

	"github.com/rowanhale/tally/internal/database"
	"github.com/rowanhale/tally/internal/store"
)

func setupAuth(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(store.NewUserStore(db))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := setupAuth(t)

	u, err := svc.Register("alice", "s3cret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	got, err := svc.Authenticate("alice", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated user %d, want %d", got.ID, u.ID)
	}
}

func TestRegisterTrimsUsername(t *testing.T) {
	svc := setupAuth(t)

	u, err := svc.Register("  bob  ", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Username != "bob" {
		t.Errorf("username = %q, want trimmed", u.Username)
	}
}

func TestRegisterRejectsEmptyInput(t *testing.T) {
	svc := setupAuth(t)

	if _, err := svc.Register("   ", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("blank username: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Register("carol", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty password: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := setupAuth(t)

	if _, err := svc.Register("dave", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register("dave", "pw2"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("error = %v, want ErrUsernameTaken", err)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	svc := setupAuth(t)

	if _, err := svc.Register("erin", "right"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate("erin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate("nobody", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: error = %v, want ErrInvalidCredentials", err)
	}
}
