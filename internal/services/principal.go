package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingCredential = newError(KindMissingCredential, dto.CodeMissingToken, nil)
	ErrInvalidCredential = newError(KindInvalidCredential, dto.CodeInvalidToken, nil)
)

// Principal is the authenticated caller of one request.
type Principal struct {
	User *models.User
	// Membership is the effective tier. An expired plus membership reads as basic here
	// while User.Membership keeps the stored value.
	Membership models.Membership
}

func (p *Principal) ID() uuid.UUID { return p.User.ID }

func (p *Principal) IsBasic() bool { return p.Membership != models.MembershipPlus }

// PrincipalResolver turns a verified credential into a Principal.
type PrincipalResolver struct {
	users store.UserRepository
	now   func() time.Time
}

func NewPrincipalResolver(users store.UserRepository) *PrincipalResolver {
	return &PrincipalResolver{users: users, now: time.Now}
}

func (r *PrincipalResolver) FromToken(ctx context.Context, token *jwt.Token) (*Principal, error) {
	if token == nil {
		return nil, ErrMissingCredential
	}
	if !token.Valid {
		return nil, ErrInvalidCredential
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidCredential
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("principal lookup failed", "user_id", userID.String(), "error", err)
		}
		return nil, ErrInvalidCredential
	}
	if user.IsDeleted() {
		slog.Warn("credential for deleted user", "user_id", userID.String())
		return nil, ErrInvalidCredential
	}

	return r.principalFor(user), nil
}

func (r *PrincipalResolver) principalFor(user *models.User) *Principal {
	return &Principal{User: user, Membership: user.EffectiveMembership(r.now())}
}
