package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "a@b.c"}

	raw, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	token, err := issuer.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sub, _ := token.Claims.GetSubject()
	if sub != user.ID.String() {
		t.Errorf("expected sub %s, got %s", user.ID, sub)
	}

	if _, err := NewTokenIssuer("other", time.Hour).Parse(raw); err == nil {
		t.Error("token signed with another secret must not verify")
	}
}

func TestTokenExpires(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, _ := issuer.Issue(&models.User{ID: uuid.New()})

	if _, err := NewTokenIssuer("secret", time.Minute).Parse(raw); err == nil {
		t.Error("expired token must not verify")
	}
}

func TestPrincipalFromToken(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	issuer := NewTokenIssuer("secret", time.Hour)
	resolver := NewPrincipalResolver(st.Users())

	user := seedUser(t, st, models.MembershipPlus).User
	raw, _ := issuer.Issue(user)
	token, _ := issuer.Parse(raw)

	p, err := resolver.FromToken(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.ID() != user.ID || p.Membership != models.MembershipPlus {
		t.Errorf("unexpected principal %+v", p)
	}
}

func TestPrincipalFailures(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	issuer := NewTokenIssuer("secret", time.Hour)
	resolver := NewPrincipalResolver(st.Users())

	_, err := resolver.FromToken(ctx, nil)
	expectCode(t, err, dto.CodeMissingToken)

	unknown, _ := issuer.Issue(&models.User{ID: uuid.New()})
	token, _ := issuer.Parse(unknown)
	_, err = resolver.FromToken(ctx, token)
	expectCode(t, err, dto.CodeInvalidToken)

	bogus := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "not-a-uuid"})
	bogus.Valid = true
	_, err = resolver.FromToken(ctx, bogus)
	expectCode(t, err, dto.CodeInvalidToken)

	deleted := &models.User{Email: "gone@example.com", Name: "gone", State: models.LifecycleDeleted}
	if err := st.Users().Create(ctx, deleted); err != nil {
		t.Fatalf("seed: %v", err)
	}
	raw, _ := issuer.Issue(deleted)
	token, _ = issuer.Parse(raw)
	_, err = resolver.FromToken(ctx, token)
	expectCode(t, err, dto.CodeInvalidToken)
}

func TestPrincipalExpiredMembershipIsBasic(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	issuer := NewTokenIssuer("secret", time.Hour)
	resolver := NewPrincipalResolver(st.Users())

	past := time.Now().Add(-time.Hour)
	user := &models.User{Email: "old@example.com", Name: "old", Membership: models.MembershipPlus, ExpiresAt: &past}
	if err := st.Users().Create(ctx, user); err != nil {
		t.Fatalf("seed: %v", err)
	}
	raw, _ := issuer.Issue(user)
	token, _ := issuer.Parse(raw)

	p, err := resolver.FromToken(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Membership != models.MembershipBasic || !p.IsBasic() {
		t.Errorf("expected basic view, got %s", p.Membership)
	}

	stored, _ := st.Users().FindByID(ctx, user.ID)
	if stored.Membership != models.MembershipPlus {
		t.Errorf("stored membership must stay plus, got %s", stored.Membership)
	}
}
