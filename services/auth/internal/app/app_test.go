package app

import (
	"errors"
	"testing"
	"time"

	"bookshelf/pkg/store"
)

func newTestApp(t *testing.T) (*App, *store.MemoryUserStore) {
	t.Helper()
	userStore := store.NewMemoryUserStore()
	a, err := New(Config{
		Store:       userStore,
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, userStore
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	a, _ := newTestApp(t)
	cases := [][3]string{
		{"", "pw1", "a@x.com"},
		{"alice", "", "a@x.com"},
		{"alice", "pw1", ""},
	}
	for _, c := range cases {
		if _, err := a.Register(c[0], c[1], c[2]); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("register(%q,%q,%q): expected ErrMissingFields, got %v", c[0], c[1], c[2], err)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("alice", "pw1", "a@x.com"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := a.Register("alice", "pw2", "other@x.com"); !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
	if _, err := a.Register("bob", "pw2", "a@x.com"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	a, userStore := newTestApp(t)
	if _, err := a.Register("alice", "pw1", "a@x.com"); err != nil {
		t.Fatalf("register: %v", err)
	}
	user, ok, _ := userStore.GetUserByUsername("alice")
	if !ok {
		t.Fatalf("expected stored user")
	}
	if user.PasswordHash == "" || user.PasswordHash == "pw1" {
		t.Fatalf("password must be stored as a hash, got %q", user.PasswordHash)
	}
}

func TestLoginAndVerifyRoundTrip(t *testing.T) {
	a, _ := newTestApp(t)
	registered, err := a.Register("alice", "pw1", "a@x.com")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := a.Login("alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	identity, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != registered.ID || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.Register("alice", "pw1", "a@x.com"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := a.Login("alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := a.Login("nobody", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := a.Login("", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestVerifyRejectsTokenOfRemovedUser(t *testing.T) {
	a, userStore := newTestApp(t)
	registered, err := a.Register("alice", "pw1", "a@x.com")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := a.Login("alice", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	userStore.DeleteUser(registered.ID)
	if _, err := a.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after user removal, got %v", err)
	}
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	a, _ := newTestApp(t)
	if _, err := a.VerifyToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
