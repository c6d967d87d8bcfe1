package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	OrderStatusFinish = "finish"
	PayMethodStripe   = "stripe"
)

// Order records one paid invoice. (UserID, TransactionID) is unique so a
// replayed webhook cannot create a second row.
type Order struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_orders_user_transaction,priority:1" json:"userId"`
	PaymentCustomerID string         `gorm:"size:255;not null" json:"extUserId"`
	Email             string         `gorm:"size:255;not null" json:"email"`
	Amount            int64          `gorm:"not null" json:"amount"`
	Status            string         `gorm:"size:50;not null" json:"status"`
	PayMethod         string         `gorm:"size:50" json:"payMethod"`
	TransactionID     string         `gorm:"size:255;uniqueIndex:idx_orders_user_transaction,priority:2" json:"transactionId"`
	Details           datatypes.JSON `gorm:"type:jsonb" json:"details"`
	CreatedAt         time.Time      `json:"created"`
	UpdatedAt         time.Time      `json:"updated"`
}
