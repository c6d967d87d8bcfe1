package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func setupStore(t *testing.T) *store.GormStore {
	return store.NewGormStore(testutil.SetupTestDB(t))
}

func createUser(t *testing.T, st store.Store, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "tester"}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestGormUserDuplicateEmail(t *testing.T) {
	st := setupStore(t)
	createUser(t, st, "dup@example.com")

	err := st.Users().Create(context.Background(), &models.User{Email: "dup@example.com", Name: "other"})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	_, err = st.Users().FindByPaymentCustomer(context.Background(), "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty customer, got %v", err)
	}
}

func TestGormUserSettingsAndMembership(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@example.com")

	settings := models.APISettings{APIKey: "sk", IsCustom: true, CustomEndpoint: "https://llm.local"}
	if err := st.Users().UpdateSettings(ctx, u.ID, settings); err != nil {
		t.Fatalf("settings: %v", err)
	}
	end := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	if err := st.Users().ApplyMembership(ctx, u.ID, models.MembershipPlus, end); err != nil {
		t.Fatalf("membership: %v", err)
	}

	got, err := st.Users().FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Settings != settings {
		t.Errorf("expected settings %+v, got %+v", settings, got.Settings)
	}
	if got.Membership != models.MembershipPlus || got.ExpiresAt == nil || !got.ExpiresAt.Equal(end) {
		t.Errorf("unexpected membership %s %v", got.Membership, got.ExpiresAt)
	}

	if err := st.Users().UpdateName(ctx, uuid.New(), "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestGormSuiteCascadeInTx(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@example.com")

	suite := &models.Suite{Name: "s", OwnerID: u.ID}
	other := &models.Suite{Name: "o", OwnerID: u.ID}
	for _, s := range []*models.Suite{suite, other} {
		if err := st.Suites().Create(ctx, s); err != nil {
			t.Fatalf("create suite: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		_ = st.Prompts().Create(ctx, models.NewPrompt(u.ID, suite.ID, ""))
	}
	_ = st.Prompts().Create(ctx, models.NewPrompt(u.ID, other.ID, ""))

	err := st.InTx(ctx, func(tx store.Store) error {
		if _, err := tx.Suites().SoftDelete(ctx, suite.ID, u.ID); err != nil {
			return err
		}
		n, err := tx.Prompts().SoftDeleteBySuite(ctx, u.ID, suite.ID)
		if n != 3 {
			t.Errorf("expected 3 prompts deleted, got %d", n)
		}
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	if _, err := st.Suites().Get(ctx, suite.ID, false); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deleted suite still visible: %v", err)
	}
	if _, err := st.Suites().Get(ctx, suite.ID, true); err != nil {
		t.Errorf("deleted suite not loadable with includeDeleted: %v", err)
	}
	n, _ := st.Prompts().CountActive(ctx, u.ID, []uuid.UUID{suite.ID, other.ID})
	if n != 1 {
		t.Errorf("expected 1 live prompt, got %d", n)
	}

	again, err := st.Suites().SoftDelete(ctx, suite.ID, u.ID)
	if err != nil || again {
		t.Errorf("second delete should match nothing: %v %v", again, err)
	}
}

func TestGormTxRollback(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@example.com")

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx store.Store) error {
		if err := tx.Suites().Create(ctx, &models.Suite{Name: "s", OwnerID: u.ID}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	suites, _ := st.Suites().ListActive(ctx, u.ID, false)
	if len(suites) != 0 {
		t.Errorf("rolled back suite persisted: %d", len(suites))
	}
}

func TestGormPromptOwnerScopedUpdates(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	owner := createUser(t, st, "a@example.com")
	stranger := createUser(t, st, "b@example.com")

	suite := &models.Suite{Name: "s", OwnerID: owner.ID}
	_ = st.Suites().Create(ctx, suite)
	prompt := models.NewPrompt(owner.ID, suite.ID, "")
	_ = st.Prompts().Create(ctx, prompt)

	if _, err := st.Prompts().Rename(ctx, prompt.ID, stranger.ID, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("stranger rename: expected ErrNotFound, got %v", err)
	}
	renamed, err := st.Prompts().Rename(ctx, prompt.ID, owner.ID, "renamed")
	if err != nil || renamed.Name != "renamed" || renamed.SuiteID != suite.ID {
		t.Fatalf("rename: %+v %v", renamed, err)
	}

	edit := store.PromptEdit{
		Name:         "edited",
		Parameters:   []byte(`{"model":"gpt-4"}`),
		Messages:     []models.Message{{Role: "system", Content: "hi"}},
		Variables:    []byte(`[]`),
		Functions:    []byte(`[]`),
		BatchConfigs: []byte(`[]`),
	}
	if _, err := st.Prompts().Update(ctx, prompt.ID, owner.ID, uuid.New(), edit); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("wrong suite update: expected ErrNotFound, got %v", err)
	}
	updated, err := st.Prompts().Update(ctx, prompt.ID, owner.ID, suite.ID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "edited" || len(updated.Messages) != 1 || updated.Messages[0].Content != "hi" {
		t.Errorf("unexpected update result %+v", updated)
	}
}

func TestGormHistoryListing(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@example.com")
	promptID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		label := models.LabelUntagged
		if i%2 == 0 {
			label = models.LabelLiked
		}
		h := &models.History{
			OwnerID:       u.ID,
			PromptID:      promptID,
			ExecutionTime: base,
			Config:        datatypes.JSON(`{}`),
			Executions:    datatypes.JSON(`[{}]`),
			Label:         label,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.Histories().Create(ctx, h); err != nil {
			t.Fatalf("create history: %v", err)
		}
	}

	recent, err := st.Histories().Recent(ctx, promptID, 2)
	if err != nil || len(recent) != 2 || !recent[0].CreatedAt.After(recent[1].CreatedAt) {
		t.Fatalf("expected 2 newest first, got %d: %v", len(recent), err)
	}

	liked, _ := st.Histories().List(ctx, store.HistoryQuery{PromptID: promptID, Labels: []models.Label{models.LabelLiked}})
	if len(liked) != 3 {
		t.Errorf("expected 3 liked rows, got %d", len(liked))
	}

	n, err := st.Histories().SoftDeleteByPrompt(ctx, promptID)
	if err != nil || n != 5 {
		t.Fatalf("expected 5 removed, got %d: %v", n, err)
	}
	count, _ := st.Histories().CountActive(ctx, promptID)
	if count != 0 {
		t.Errorf("expected no live rows, got %d", count)
	}
}

func TestGormOrderUniqueTransaction(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	u := createUser(t, st, "a@example.com")

	order := func() *models.Order {
		return &models.Order{
			UserID: u.ID, PaymentCustomerID: "cus_1", Email: u.Email, Amount: 999,
			Status: models.OrderStatusFinish, PayMethod: models.PayMethodStripe, TransactionID: "pi_1",
		}
	}
	if err := st.Orders().Create(ctx, order()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.Orders().Create(ctx, order()); !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected ErrConflict on replay, got %v", err)
	}
	if _, err := st.Orders().FindByTransaction(ctx, u.ID, "pi_1"); err != nil {
		t.Errorf("find: %v", err)
	}
}

func TestGormUserLockSerializesTransactions(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	u := createUser(t, st, "lock@example.com")

	if err := st.Users().Lock(ctx, uuid.New()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a missing user, got %v", err)
	}

	locked := make(chan struct{})
	var firstDone time.Time
	first := make(chan error, 1)
	go func() {
		first <- st.InTx(ctx, func(tx store.Store) error {
			if err := tx.Users().Lock(ctx, u.ID); err != nil {
				return err
			}
			close(locked)
			time.Sleep(200 * time.Millisecond)
			firstDone = time.Now()
			return nil
		})
	}()

	<-locked
	var acquired time.Time
	err := st.InTx(ctx, func(tx store.Store) error {
		if err := tx.Users().Lock(ctx, u.ID); err != nil {
			return err
		}
		acquired = time.Now()
		return nil
	})
	if err != nil {
		t.Fatalf("second lock: %v", err)
	}
	if err := <-first; err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if acquired.Before(firstDone) {
		t.Error("second transaction acquired the row while the first still held it")
	}
}
