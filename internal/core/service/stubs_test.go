package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/campusverein/member-portal/internal/core/domain"
)

// fakeClock is a settable clock so timeout and window tests are
// deterministic.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubTokens hands out deterministic, distinct tokens.
type stubTokens struct {
	mu   sync.Mutex
	next int
}

func (t *stubTokens) Hex(n int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	return fmt.Sprintf("%0*x", n*2, t.next), nil
}

// stubAccountRepo is an in-memory credential store with call counters and
// per-method error injection.
type stubAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by id

	findByEmailCalls int
	deleteCalls      int

	findByEmailErr error
	findByIDErr    error
	insertErr      error
	deleteErr      error
}

func newStubAccountRepo(accounts ...*domain.Account) *stubAccountRepo {
	r := &stubAccountRepo{accounts: make(map[string]*domain.Account)}
	for _, a := range accounts {
		cp := *a
		r.accounts[a.ID] = &cp
	}
	return r
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByEmailCalls++
	if r.findByEmailErr != nil {
		return nil, r.findByEmailErr
	}
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByIDErr != nil {
		return nil, r.findByIDErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubAccountRepo) Insert(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	cp := *account
	r.accounts[account.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubAccountRepo) UpdatePasswordHash(_ context.Context, id string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = &hash
	return nil
}

func (r *stubAccountRepo) UpdateEmail(_ context.Context, id string, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Email = email
	return nil
}

func (r *stubAccountRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role = role
	return nil
}

func (r *stubAccountRepo) DeleteCascade(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *stubAccountRepo) get(id string) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

// countingLimiter records calls without any windowing logic.
type countingLimiter struct {
	limited  bool
	failures int
}

func (l *countingLimiter) IsLimited(context.Context, string) (bool, error) {
	return l.limited, nil
}

func (l *countingLimiter) RecordFailure(context.Context, string) error {
	l.failures++
	return nil
}

// stubAudit collects recorded actions.
type stubAudit struct {
	mu      sync.Mutex
	actions []string
}

func (a *stubAudit) Record(_ context.Context, _, action, _, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, action)
	return nil
}

func (a *stubAudit) has(action string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, got := range a.actions {
		if got == action {
			return true
		}
	}
	return false
}

// stubNotifier reports a configurable delivery outcome.
type stubNotifier struct {
	delivered bool
	calls     int
	lastAddr  string
}

func (n *stubNotifier) Notify(_ context.Context, address, _ string, _ map[string]string) bool {
	n.calls++
	n.lastAddr = address
	return n.delivered
}

// stubUserData serves fixed dependent records.
type stubUserData struct {
	profile       *domain.Profile
	skills        []domain.Skill
	registrations []domain.EventRegistration
	subscriptions []domain.Subscription
}

func (u *stubUserData) ProfileByAccount(context.Context, string) (*domain.Profile, error) {
	return u.profile, nil
}

func (u *stubUserData) SkillsByAccount(context.Context, string) ([]domain.Skill, error) {
	return u.skills, nil
}

func (u *stubUserData) EventRegistrationsByAccount(context.Context, string) ([]domain.EventRegistration, error) {
	return u.registrations, nil
}

func (u *stubUserData) SubscriptionsByAccount(context.Context, string) ([]domain.Subscription, error) {
	return u.subscriptions, nil
}
