package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

type suites struct{ s *Store }

func (r *suites) Create(ctx context.Context, suite *models.Suite) error {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	if suite.ID == uuid.Nil {
		suite.ID = uuid.New()
	}
	if suite.State == "" {
		suite.State = models.LifecycleActive
	}
	now := r.s.now()
	if suite.CreatedAt.IsZero() {
		suite.CreatedAt = now
	}
	suite.UpdatedAt = now
	st.suites[suite.ID] = *suite
	st.track(suite.ID)
	st.writes++
	return nil
}

func (r *suites) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Suite, error) {
	unlock := r.s.lock()
	defer unlock()

	suite, ok := r.s.state.suites[id]
	if !ok || (!includeDeleted && suite.IsDeleted()) {
		return nil, fmt.Errorf("get suite: %w", store.ErrNotFound)
	}
	return &suite, nil
}

func (r *suites) ListActive(ctx context.Context, owner uuid.UUID, newestFirst bool) ([]models.Suite, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	var out []models.Suite
	for _, suite := range st.suites {
		if suite.OwnerID == owner && !suite.IsDeleted() {
			out = append(out, suite)
		}
	}
	byCreated(st, out,
		func(s models.Suite) uuid.UUID { return s.ID },
		func(s models.Suite) time.Time { return s.CreatedAt },
		newestFirst)
	return out, nil
}

func (r *suites) Rename(ctx context.Context, id, owner uuid.UUID, name string) (*models.Suite, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	suite, ok := st.suites[id]
	if !ok || suite.OwnerID != owner || suite.IsDeleted() {
		return nil, fmt.Errorf("rename suite: %w", store.ErrNotFound)
	}
	suite.Name = name
	suite.UpdatedAt = r.s.now()
	st.suites[id] = suite
	st.writes++
	return &suite, nil
}

func (r *suites) SoftDelete(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	suite, ok := st.suites[id]
	if !ok || suite.OwnerID != owner || suite.IsDeleted() {
		return false, nil
	}
	suite.State = models.LifecycleDeleted
	suite.UpdatedAt = r.s.now()
	st.suites[id] = suite
	st.writes++
	return true, nil
}
