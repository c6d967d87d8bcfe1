package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Label is a tri-state user annotation on a history record.
type Label int

const (
	LabelUntagged Label = 0
	LabelLiked    Label = 1
	LabelDisliked Label = 2
)

func (l Label) Valid() bool {
	return l == LabelUntagged || l == LabelLiked || l == LabelDisliked
}

// History is one recorded execution of a prompt. Only Label changes after creation.
type History struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"createdBy"`
	PromptID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_histories_prompt_created,priority:1" json:"promptId"`
	ExecutionTime     time.Time      `gorm:"not null" json:"executionTime"`
	Config            datatypes.JSON `gorm:"type:jsonb;not null" json:"config"`
	Executions        datatypes.JSON `gorm:"type:jsonb;not null" json:"executions"`
	SystemFingerprint *string        `gorm:"size:255" json:"systemFingerprint"`
	Label             Label          `gorm:"not null;default:0" json:"label"`
	State             Lifecycle      `gorm:"size:20;not null;default:'active';index" json:"-"`
	CreatedAt         time.Time      `gorm:"index:idx_histories_prompt_created,priority:2" json:"created"`
	UpdatedAt         time.Time      `json:"updated"`
}

func (h *History) Owner() uuid.UUID { return h.OwnerID }
func (h *History) IsDeleted() bool  { return h.State.IsDeleted() }
