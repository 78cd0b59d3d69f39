package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusverein/member-portal/internal/core/domain"
	"github.com/campusverein/member-portal/internal/core/ports"
	"github.com/campusverein/member-portal/internal/infrastructure/memory"
)

type sessionFixture struct {
	repo     *stubAccountRepo
	store    *memory.SessionStore
	clock    *fakeClock
	sessions ports.SessionManager
}

func newSessionFixture(t *testing.T, accounts ...*domain.Account) *sessionFixture {
	t.Helper()
	clock := newFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := newStubAccountRepo(accounts...)
	store := memory.NewSessionStore()
	sessions := NewSessionManager(store, repo, &stubTokens{}, clock, 30*time.Minute, zerolog.Nop())
	return &sessionFixture{repo: repo, store: store, clock: clock, sessions: sessions}
}

func TestSessionManager_CreateMintsFreshState(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	first, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Each login gets a fresh id and token; nothing survives from before.
	if first.ID == second.ID {
		t.Fatal("session ids must differ between logins")
	}
	if first.CSRFToken == second.CSRFToken {
		t.Fatal("csrf tokens must differ between logins")
	}
	if !first.LastActivity.Equal(f.clock.Now()) {
		t.Fatalf("expected last activity %v, got %v", f.clock.Now(), first.LastActivity)
	}
	if _, err := f.store.Get(ctx, second.ID); err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
}

func TestSessionManager_TimeoutWithinWindow(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.clock.Advance(29 * time.Minute)
	alive, err := f.sessions.CheckTimeout(ctx, sess)
	if err != nil {
		t.Fatalf("check timeout: %v", err)
	}
	if !alive {
		t.Fatal("session within the idle window must stay alive")
	}
	if !sess.LastActivity.Equal(f.clock.Now()) {
		t.Fatal("activity timestamp must be refreshed on a live check")
	}

	stored, err := f.store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if !stored.LastActivity.Equal(f.clock.Now()) {
		t.Fatal("refreshed activity must be persisted")
	}
}

func TestSessionManager_TimeoutExpiredDestroysSession(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.clock.Advance(31 * time.Minute)
	alive, err := f.sessions.CheckTimeout(ctx, sess)
	if err != nil {
		t.Fatalf("check timeout: %v", err)
	}
	if alive {
		t.Fatal("session past the idle window must be dead")
	}
	if _, err := f.store.Get(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expired session must be removed from the store, got %v", err)
	}
}

func TestSessionManager_ReconcileAccountGone(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Account deleted out-of-band after login.
	if err := f.repo.DeleteCascade(ctx, account.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	valid, err := f.sessions.Reconcile(ctx, sess)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if valid {
		t.Fatal("session for a deleted account must be invalid")
	}
	if _, err := f.store.Get(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("invalid session must be destroyed, got %v", err)
	}
}

func TestSessionManager_ReconcileEmailMismatchIsCritical(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.repo.UpdateEmail(ctx, account.ID, "geaendert@verein.de"); err != nil {
		t.Fatalf("update email: %v", err)
	}

	valid, err := f.sessions.Reconcile(ctx, sess)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if valid {
		t.Fatal("session with a stale email must be invalid")
	}
	if _, err := f.store.Get(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("invalid session must be destroyed, got %v", err)
	}
}

func TestSessionManager_ReconcileEmailCaseInsensitive(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.repo.UpdateEmail(ctx, account.ID, "Anna@Verein.de"); err != nil {
		t.Fatalf("update email: %v", err)
	}

	valid, err := f.sessions.Reconcile(ctx, sess)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !valid {
		t.Fatal("case difference alone must not invalidate the session")
	}
}

func TestSessionManager_ReconcileRolePromotion(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Out-of-band promotion takes effect without a logout.
	if err := f.repo.UpdateRole(ctx, account.ID, domain.RoleVorstand); err != nil {
		t.Fatalf("update role: %v", err)
	}

	valid, err := f.sessions.Reconcile(ctx, sess)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !valid {
		t.Fatal("role drift must not invalidate the session")
	}
	if sess.Role != domain.RoleVorstand {
		t.Fatalf("expected refreshed role vorstand, got %q", sess.Role)
	}

	stored, err := f.store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("store get: %v", err)
	}
	if stored.Role != domain.RoleVorstand {
		t.Fatalf("refreshed role must be persisted, got %q", stored.Role)
	}
}

func TestSessionManager_ReconcileNameDrift(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.repo.mu.Lock()
	f.repo.accounts[account.ID].FamilyName = "Schmidt-Berger"
	f.repo.mu.Unlock()

	valid, err := f.sessions.Reconcile(ctx, sess)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !valid {
		t.Fatal("name drift must not invalidate the session")
	}
	if sess.FamilyName != "Schmidt-Berger" {
		t.Fatalf("expected refreshed family name, got %q", sess.FamilyName)
	}
}

func TestSessionManager_Destroy(t *testing.T) {
	account := testAccount(t)
	f := newSessionFixture(t, account)
	ctx := context.Background()

	sess, err := f.sessions.Create(ctx, account, domain.AuthMethodPassword)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.sessions.Destroy(ctx, sess.ID); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := f.store.Get(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("destroyed session must be gone, got %v", err)
	}
}
