package memstore

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

type orders struct{ s *Store }

func (r *orders) FindByTransaction(ctx context.Context, user uuid.UUID, transactionID string) (*models.Order, error) {
	unlock := r.s.lock()
	defer unlock()

	for _, o := range r.s.state.orders {
		if o.UserID == user && o.TransactionID == transactionID {
			found := o
			return &found, nil
		}
	}
	return nil, fmt.Errorf("find order: %w", store.ErrNotFound)
}

func (r *orders) Create(ctx context.Context, order *models.Order) error {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	for _, o := range st.orders {
		if o.UserID == order.UserID && o.TransactionID == order.TransactionID {
			return fmt.Errorf("create order: %w", store.ErrConflict)
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := r.s.now()
	order.CreatedAt = now
	order.UpdatedAt = now
	st.orders[order.ID] = *order
	st.track(order.ID)
	st.writes++
	return nil
}
