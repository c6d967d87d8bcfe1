package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type prompts struct{ s *Store }

func (r *prompts) Create(ctx context.Context, prompt *models.Prompt) error {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	if prompt.ID == uuid.Nil {
		prompt.ID = uuid.New()
	}
	if prompt.State == "" {
		prompt.State = models.LifecycleActive
	}
	now := r.s.now()
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = now
	}
	prompt.UpdatedAt = now
	st.prompts[prompt.ID] = *prompt
	st.track(prompt.ID)
	st.writes++
	return nil
}

func (r *prompts) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Prompt, error) {
	unlock := r.s.lock()
	defer unlock()

	prompt, ok := r.s.state.prompts[id]
	if !ok || (!includeDeleted && prompt.IsDeleted()) {
		return nil, fmt.Errorf("get prompt: %w", store.ErrNotFound)
	}
	return &prompt, nil
}

func (r *prompts) ListBySuite(ctx context.Context, owner, suite uuid.UUID) ([]models.Prompt, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	var out []models.Prompt
	for _, p := range st.prompts {
		if p.OwnerID == owner && p.SuiteID == suite && !p.IsDeleted() {
			out = append(out, p)
		}
	}
	byCreated(st, out,
		func(p models.Prompt) uuid.UUID { return p.ID },
		func(p models.Prompt) time.Time { return p.CreatedAt },
		false)
	return out, nil
}

func (r *prompts) live(owner uuid.UUID, suites []uuid.UUID) []models.Prompt {
	in := make(map[uuid.UUID]bool, len(suites))
	for _, id := range suites {
		in[id] = true
	}
	var out []models.Prompt
	for _, p := range r.s.state.prompts {
		if p.OwnerID == owner && in[p.SuiteID] && !p.IsDeleted() {
			out = append(out, p)
		}
	}
	return out
}

func (r *prompts) CountActive(ctx context.Context, owner uuid.UUID, suites []uuid.UUID) (int64, error) {
	unlock := r.s.lock()
	defer unlock()
	return int64(len(r.live(owner, suites))), nil
}

func (r *prompts) LatestActive(ctx context.Context, owner uuid.UUID, suites []uuid.UUID) (*models.Prompt, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	var latest *models.Prompt
	for _, p := range r.live(owner, suites) {
		p := p
		if latest == nil ||
			p.UpdatedAt.After(latest.UpdatedAt) ||
			(p.UpdatedAt.Equal(latest.UpdatedAt) && st.seq[p.ID] > st.seq[latest.ID]) {
			latest = &p
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("latest prompt: %w", store.ErrNotFound)
	}
	return latest, nil
}

func (r *prompts) Rename(ctx context.Context, id, owner uuid.UUID, name string) (*models.Prompt, error) {
	return r.update(id, owner, nil, func(p *models.Prompt) { p.Name = name })
}

func (r *prompts) Update(ctx context.Context, id, owner, suite uuid.UUID, edit store.PromptEdit) (*models.Prompt, error) {
	return r.update(id, owner, &suite, func(p *models.Prompt) {
		p.Name = edit.Name
		p.Parameters = datatypes.JSON(edit.Parameters)
		p.Messages = datatypes.JSONSlice[models.Message](edit.Messages)
		p.Variables = datatypes.JSON(edit.Variables)
		p.Functions = datatypes.JSON(edit.Functions)
		p.ToolChoice = edit.ToolChoice
		p.BatchConfigs = datatypes.JSON(edit.BatchConfigs)
	})
}

func (r *prompts) update(id, owner uuid.UUID, suite *uuid.UUID, apply func(*models.Prompt)) (*models.Prompt, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	p, ok := st.prompts[id]
	if !ok || p.OwnerID != owner || p.IsDeleted() || (suite != nil && p.SuiteID != *suite) {
		return nil, fmt.Errorf("update prompt: %w", store.ErrNotFound)
	}
	apply(&p)
	p.UpdatedAt = r.s.now()
	st.prompts[id] = p
	st.writes++
	return &p, nil
}

func (r *prompts) SoftDelete(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	p, ok := st.prompts[id]
	if !ok || p.OwnerID != owner || p.IsDeleted() {
		return false, nil
	}
	p.State = models.LifecycleDeleted
	p.UpdatedAt = r.s.now()
	st.prompts[id] = p
	st.writes++
	return true, nil
}

func (r *prompts) SoftDeleteBySuite(ctx context.Context, owner, suite uuid.UUID) (int64, error) {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	var n int64
	now := r.s.now()
	for id, p := range st.prompts {
		if p.OwnerID != owner || p.SuiteID != suite || p.IsDeleted() {
			continue
		}
		p.State = models.LifecycleDeleted
		p.UpdatedAt = now
		st.prompts[id] = p
		n++
	}
	if n > 0 {
		st.writes++
	}
	return n, nil
}
