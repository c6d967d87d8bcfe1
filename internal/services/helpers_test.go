package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store/memstore"
	"github.com/google/uuid"
)

func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore() *memstore.Store {
	return memstore.New().WithClock(tickingClock())
}

func seedUser(t *testing.T, st *memstore.Store, membership models.Membership) *Principal {
	t.Helper()
	u := &models.User{
		Email:      uuid.NewString() + "@example.com",
		Name:       "tester",
		Membership: membership,
	}
	if membership == models.MembershipPlus {
		exp := time.Now().Add(24 * time.Hour)
		u.ExpiresAt = &exp
	}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &Principal{User: u, Membership: u.EffectiveMembership(time.Now())}
}

func seedSuite(t *testing.T, st *memstore.Store, p *Principal) *models.Suite {
	t.Helper()
	s := &models.Suite{Name: "suite", OwnerID: p.ID()}
	if err := st.Suites().Create(context.Background(), s); err != nil {
		t.Fatalf("seed suite: %v", err)
	}
	return s
}

func seedPrompt(t *testing.T, st *memstore.Store, p *Principal, suite *models.Suite) *models.Prompt {
	t.Helper()
	pr := models.NewPrompt(p.ID(), suite.ID, "")
	if err := st.Prompts().Create(context.Background(), pr); err != nil {
		t.Fatalf("seed prompt: %v", err)
	}
	return pr
}

func expectCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected code %d, got nil error", code)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error with code %d, got %v", code, err)
	}
	if e.Code != code {
		t.Fatalf("expected code %d, got %d (%v)", code, e.Code, err)
	}
}
