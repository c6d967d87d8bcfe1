package store

import (
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Active restricts a query to rows that have not been soft-deleted.
func Active() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("state = ?", models.LifecycleActive)
	}
}

// OwnedBy restricts a query to rows owned by the given user.
func OwnedBy(owner uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", owner)
	}
}
