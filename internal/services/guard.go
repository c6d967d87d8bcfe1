package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

type ownedEntity interface {
	Owner() uuid.UUID
	IsDeleted() bool
}

type loader[T ownedEntity] func(ctx context.Context, id uuid.UUID, includeDeleted bool) (T, error)

// guardCodes are the response codes of one guarded operation. A missing row
// and a row owned by someone else both report denied.
type guardCodes struct {
	invalid int
	denied  int
}

// resolveOwned loads the entity identified by raw and checks that p owns it.
// Deleted rows are only returned when includeDeleted is set.
func resolveOwned[T ownedEntity](ctx context.Context, p *Principal, raw string, includeDeleted bool, load loader[T], codes guardCodes) (T, error) {
	var zero T

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zero, invalid(codes.invalid, "empty id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return zero, notFound(codes.denied)
	}

	entity, err := load(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return zero, notFound(codes.denied)
		}
		return zero, internal(codes.invalid, err)
	}
	if entity.Owner() != p.ID() {
		return zero, notFound(codes.denied)
	}
	if entity.IsDeleted() && !includeDeleted {
		return zero, notFound(codes.denied)
	}
	return entity, nil
}

func suiteLoader(st store.Store) loader[*models.Suite] {
	return func(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Suite, error) {
		return st.Suites().Get(ctx, id, includeDeleted)
	}
}

func promptLoader(st store.Store) loader[*models.Prompt] {
	return func(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Prompt, error) {
		return st.Prompts().Get(ctx, id, includeDeleted)
	}
}

// historyLoader only sees live rows; history has no idempotent delete by id.
func historyLoader(st store.Store) loader[*models.History] {
	return func(ctx context.Context, id uuid.UUID, _ bool) (*models.History, error) {
		return st.Histories().Get(ctx, id)
	}
}
