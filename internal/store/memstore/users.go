package memstore

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

type users struct{ s *Store }

func (r *users) Create(ctx context.Context, user *models.User) error {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	for _, u := range st.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", store.ErrConflict)
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.State == "" {
		user.State = models.LifecycleActive
	}
	if user.Membership == "" {
		user.Membership = models.MembershipBasic
	}
	now := r.s.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	st.users[user.ID] = *user
	st.track(user.ID)
	st.writes++
	return nil
}

func (r *users) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

// Lock only checks the row. Transactions already hold the store mutex.
func (r *users) Lock(ctx context.Context, id uuid.UUID) error {
	_, err := r.FindByID(ctx, id)
	return err
}

func (r *users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *users) FindByPaymentCustomer(ctx context.Context, customerID string) (*models.User, error) {
	return r.find(func(u models.User) bool { return customerID != "" && u.PaymentCustomerID == customerID })
}

func (r *users) find(match func(models.User) bool) (*models.User, error) {
	unlock := r.s.lock()
	defer unlock()
	for _, u := range r.s.state.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", store.ErrNotFound)
}

func (r *users) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return r.update(id, func(u *models.User) { u.Name = name })
}

func (r *users) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.APISettings) error {
	return r.update(id, func(u *models.User) { u.Settings = settings })
}

func (r *users) SetPaymentCustomer(ctx context.Context, id uuid.UUID, customerID string) error {
	return r.update(id, func(u *models.User) { u.PaymentCustomerID = customerID })
}

func (r *users) ApplyMembership(ctx context.Context, id uuid.UUID, membership models.Membership, expiresAt time.Time) error {
	return r.update(id, func(u *models.User) {
		u.Membership = membership
		exp := expiresAt
		u.ExpiresAt = &exp
	})
}

func (r *users) update(id uuid.UUID, apply func(*models.User)) error {
	unlock := r.s.lock()
	defer unlock()
	st := r.s.state

	u, ok := st.users[id]
	if !ok || u.IsDeleted() {
		return fmt.Errorf("update user: %w", store.ErrNotFound)
	}
	apply(&u)
	u.UpdatedAt = r.s.now()
	st.users[id] = u
	st.writes++
	return nil
}
