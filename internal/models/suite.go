package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultSuiteName = "New_Project"

// Suite is a project grouping of prompts.
type Suite struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
	State     Lifecycle `gorm:"size:20;not null;default:'active';index" json:"-"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

func (s *Suite) Owner() uuid.UUID { return s.OwnerID }
func (s *Suite) IsDeleted() bool  { return s.State.IsDeleted() }
