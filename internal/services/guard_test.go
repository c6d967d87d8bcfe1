package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
)

var testCodes = guardCodes{invalid: 11, denied: 22}

func TestResolveOwnedForeignAndMissingAreIdentical(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	owner := seedUser(t, st, models.MembershipBasic)
	other := seedUser(t, st, models.MembershipBasic)
	suite := seedSuite(t, st, owner)

	_, foreign := resolveOwned(ctx, other, suite.ID.String(), false, suiteLoader(st), testCodes)
	_, missing := resolveOwned(ctx, other, uuid.NewString(), false, suiteLoader(st), testCodes)

	expectCode(t, foreign, 22)
	expectCode(t, missing, 22)
	if KindOf(foreign) != KindOf(missing) {
		t.Errorf("kinds differ: %v vs %v", KindOf(foreign), KindOf(missing))
	}
	if foreign.Error() != missing.Error() {
		t.Errorf("messages differ: %q vs %q", foreign, missing)
	}
}

func TestResolveOwnedInputs(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	owner := seedUser(t, st, models.MembershipBasic)
	suite := seedSuite(t, st, owner)

	tests := []struct {
		name string
		id   string
		code int
	}{
		{"empty", "", 11},
		{"blank", "   ", 11},
		{"malformed", "not-a-uuid", 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveOwned(ctx, owner, tt.id, false, suiteLoader(st), testCodes)
			expectCode(t, err, tt.code)
		})
	}

	got, err := resolveOwned(ctx, owner, "  "+suite.ID.String()+" ", false, suiteLoader(st), testCodes)
	if err != nil {
		t.Fatalf("trimmed id should resolve: %v", err)
	}
	if got.ID != suite.ID {
		t.Errorf("resolved wrong suite")
	}
}

func TestResolveOwnedDeletedRows(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	owner := seedUser(t, st, models.MembershipBasic)
	suite := seedSuite(t, st, owner)
	if _, err := st.Suites().SoftDelete(ctx, suite.ID, owner.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err := resolveOwned(ctx, owner, suite.ID.String(), false, suiteLoader(st), testCodes)
	expectCode(t, err, 22)

	got, err := resolveOwned(ctx, owner, suite.ID.String(), true, suiteLoader(st), testCodes)
	if err != nil {
		t.Fatalf("includeDeleted lookup: %v", err)
	}
	if !got.IsDeleted() {
		t.Error("expected deleted suite")
	}
}
