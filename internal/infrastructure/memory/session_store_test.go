package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campusverein/member-portal/internal/core/domain"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := &domain.Session{
		ID:           "sess-1",
		AccountID:    "acc-1",
		Role:         domain.RoleMitglied,
		Email:        "anna@verein.de",
		CSRFToken:    "token-1",
		LastActivity: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *sess {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, sess)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := NewSessionStore()
	if _, err := store.Get(context.Background(), "fehlt"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	if err := store.Put(ctx, &domain.Session{ID: "sess-1"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	// Deleting an absent session is not an error.
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestSessionStore_CopiesValues(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	sess := &domain.Session{ID: "sess-1", Role: domain.RoleMitglied}
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	sess.Role = domain.RoleAdmin
	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != domain.RoleMitglied {
		t.Fatalf("store must hold its own copy, got role %q", got.Role)
	}

	// And mutating a returned copy must not change the stored value.
	got.Role = domain.RoleVorstand
	again, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Role != domain.RoleMitglied {
		t.Fatalf("returned sessions must be copies, got role %q", again.Role)
	}
}
