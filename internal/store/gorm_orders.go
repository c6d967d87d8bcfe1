package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormOrders struct {
	db *gorm.DB
}

func (r *gormOrders) FindByTransaction(ctx context.Context, user uuid.UUID, transactionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND transaction_id = ?", user, transactionID).
		First(&order).Error
	if err != nil {
		return nil, translate(err, "find order")
	}
	return &order, nil
}

func (r *gormOrders) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Create(order).Error, "create order")
}
