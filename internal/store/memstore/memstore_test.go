package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := uuid.New()

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Store) error {
		if err := tx.Suites().Create(ctx, &models.Suite{Name: "a", OwnerID: owner}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	suites, _ := s.Suites().ListActive(ctx, owner, false)
	if len(suites) != 0 {
		t.Errorf("expected rollback, found %d suites", len(suites))
	}
	if s.Writes() != 0 {
		t.Errorf("expected 0 writes after rollback, got %d", s.Writes())
	}
}

func TestInTxCommits(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := uuid.New()

	err := s.InTx(ctx, func(tx store.Store) error {
		return tx.Suites().Create(ctx, &models.Suite{Name: "a", OwnerID: owner})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	suites, _ := s.Suites().ListActive(ctx, owner, false)
	if len(suites) != 1 {
		t.Errorf("expected 1 suite, got %d", len(suites))
	}
}

func TestDuplicateEmailConflicts(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Users().Create(ctx, &models.User{Email: "a@b.c", Name: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := s.Users().Create(ctx, &models.User{Email: "a@b.c", Name: "b"})
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestOrderTransactionUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := uuid.New()

	if err := s.Orders().Create(ctx, &models.Order{UserID: user, TransactionID: "pi_1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Orders().Create(ctx, &models.Order{UserID: user, TransactionID: "pi_1"}); !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
	if err := s.Orders().Create(ctx, &models.Order{UserID: uuid.New(), TransactionID: "pi_1"}); err != nil {
		t.Errorf("other user should not conflict: %v", err)
	}
}

func TestHistoryListNewestFirstWithLabels(t *testing.T) {
	s := New().WithClock(tickingClock())
	ctx := context.Background()
	prompt := uuid.New()

	var ids []uuid.UUID
	for i := 0; i < 6; i++ {
		h := &models.History{PromptID: prompt, Label: models.Label(i % 3)}
		if err := s.Histories().Create(ctx, h); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, h.ID)
	}

	rows, _ := s.Histories().List(ctx, store.HistoryQuery{PromptID: prompt, Limit: 2})
	if len(rows) != 2 || rows[0].ID != ids[5] || rows[1].ID != ids[4] {
		t.Fatalf("unexpected order: %+v", rows)
	}

	liked, _ := s.Histories().List(ctx, store.HistoryQuery{PromptID: prompt, Labels: []models.Label{models.LabelLiked}})
	if len(liked) != 2 || liked[0].ID != ids[4] || liked[1].ID != ids[1] {
		t.Errorf("unexpected liked rows: %+v", liked)
	}

	past, _ := s.Histories().List(ctx, store.HistoryQuery{PromptID: prompt, Offset: 10, Limit: 2})
	if len(past) != 0 {
		t.Errorf("expected empty page, got %d", len(past))
	}
}

func TestSoftDeleteOnlyTouchesLiveOwnedRows(t *testing.T) {
	s := New()
	ctx := context.Background()
	owner := uuid.New()

	suite := &models.Suite{Name: "s", OwnerID: owner}
	_ = s.Suites().Create(ctx, suite)

	if ok, _ := s.Suites().SoftDelete(ctx, suite.ID, uuid.New()); ok {
		t.Error("foreign owner must not delete")
	}
	if ok, _ := s.Suites().SoftDelete(ctx, suite.ID, owner); !ok {
		t.Error("owner delete should succeed")
	}
	if ok, _ := s.Suites().SoftDelete(ctx, suite.ID, owner); ok {
		t.Error("second delete must be a no-op")
	}

	got, err := s.Suites().Get(ctx, suite.ID, true)
	if err != nil || !got.IsDeleted() {
		t.Errorf("expected deleted suite, got %+v, %v", got, err)
	}
	if _, err := s.Suites().Get(ctx, suite.ID, false); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected not found for active lookup, got %v", err)
	}
}
