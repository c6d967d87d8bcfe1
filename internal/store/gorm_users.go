package store

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormUsers struct {
	db *gorm.DB
}

func (r *gormUsers) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.State == "" {
		user.State = models.LifecycleActive
	}
	if user.Membership == "" {
		user.Membership = models.MembershipBasic
	}
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *gormUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (r *gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (r *gormUsers) FindByPaymentCustomer(ctx context.Context, customerID string) (*models.User, error) {
	if customerID == "" {
		return nil, translate(gorm.ErrRecordNotFound, "find user by customer")
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("payment_customer_id = ?", customerID).First(&user).Error; err != nil {
		return nil, translate(err, "find user by customer")
	}
	return &user, nil
}

func (r *gormUsers) Lock(ctx context.Context, id uuid.UUID) error {
	var user models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Take(&user, "id = ?", id).Error
	return translate(err, "lock user")
}

func (r *gormUsers) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	return r.update(ctx, id, map[string]interface{}{"name": name})
}

func (r *gormUsers) UpdateSettings(ctx context.Context, id uuid.UUID, settings models.APISettings) error {
	return r.update(ctx, id, map[string]interface{}{
		"openai_api_key":         settings.APIKey,
		"openai_is_custom":       settings.IsCustom,
		"openai_custom_endpoint": settings.CustomEndpoint,
	})
}

func (r *gormUsers) SetPaymentCustomer(ctx context.Context, id uuid.UUID, customerID string) error {
	return r.update(ctx, id, map[string]interface{}{"payment_customer_id": customerID})
}

func (r *gormUsers) ApplyMembership(ctx context.Context, id uuid.UUID, membership models.Membership, expiresAt time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"membership": membership,
		"expires_at": expiresAt,
	})
}

func (r *gormUsers) update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Scopes(Active()).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "update user")
	}
	return nil
}
