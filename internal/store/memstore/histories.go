package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

type histories struct{ s *Store }

func (r *histories) Create(ctx context.Context, history *models.History) error {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	if history.State == "" {
		history.State = models.LifecycleActive
	}
	now := r.s.now()
	if history.CreatedAt.IsZero() {
		history.CreatedAt = now
	}
	history.UpdatedAt = now
	st.histories[history.ID] = *history
	st.track(history.ID)
	st.writes++
	return nil
}

func (r *histories) Get(ctx context.Context, id uuid.UUID) (*models.History, error) {
	unlock := r.s.lock()
	defer unlock()

	h, ok := r.s.state.histories[id]
	if !ok || h.IsDeleted() {
		return nil, fmt.Errorf("get history: %w", store.ErrNotFound)
	}
	return &h, nil
}

func (r *histories) SetLabel(ctx context.Context, id, owner uuid.UUID, label models.Label) (*models.History, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	h, ok := st.histories[id]
	if !ok || h.OwnerID != owner || h.IsDeleted() {
		return nil, fmt.Errorf("label history: %w", store.ErrNotFound)
	}
	h.Label = label
	h.UpdatedAt = r.s.now()
	st.histories[id] = h
	st.writes++
	return &h, nil
}

func (r *histories) CountActive(ctx context.Context, prompt uuid.UUID) (int64, error) {
	unlock := r.s.lock()
	defer unlock()

	var n int64
	for _, h := range r.s.state.histories {
		if h.PromptID == prompt && !h.IsDeleted() {
			n++
		}
	}
	return n, nil
}

func (r *histories) Recent(ctx context.Context, prompt uuid.UUID, limit int) ([]models.History, error) {
	return r.List(ctx, store.HistoryQuery{PromptID: prompt, Limit: limit})
}

func (r *histories) List(ctx context.Context, q store.HistoryQuery) ([]models.History, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	wanted := make(map[models.Label]bool, len(q.Labels))
	for _, l := range q.Labels {
		wanted[l] = true
	}

	var rows []models.History
	for _, h := range st.histories {
		if h.PromptID != q.PromptID || h.IsDeleted() {
			continue
		}
		if len(wanted) > 0 && !wanted[h.Label] {
			continue
		}
		rows = append(rows, h)
	}
	byCreated(st, rows,
		func(h models.History) uuid.UUID { return h.ID },
		func(h models.History) time.Time { return h.CreatedAt },
		true)

	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			return nil, nil
		}
		rows = rows[q.Offset:]
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

func (r *histories) SoftDeleteByPrompt(ctx context.Context, prompt uuid.UUID) (int64, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	var n int64
	now := r.s.now()
	for id, h := range st.histories {
		if h.PromptID != prompt || h.IsDeleted() {
			continue
		}
		h.State = models.LifecycleDeleted
		h.UpdatedAt = now
		st.histories[id] = h
		n++
	}
	if n > 0 {
		st.writes++
	}
	return n, nil
}
