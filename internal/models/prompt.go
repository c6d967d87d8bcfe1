package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DefaultPromptName = "Untitled"

const defaultPromptParameters = `{"model":"gpt-3.5-turbo","temperature":1,"topP":1,"n":1,"maxTokens":0,"frequencyPenalty":0,"presencePenalty":0}`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is a reusable LLM call template inside a suite.
type Prompt struct {
	ID           uuid.UUID                    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string                       `gorm:"not null;size:255" json:"name"`
	OwnerID      uuid.UUID                    `gorm:"type:uuid;not null;index" json:"createdBy"`
	SuiteID      uuid.UUID                    `gorm:"type:uuid;not null;index" json:"suiteId"`
	State        Lifecycle                    `gorm:"size:20;not null;default:'active';index" json:"-"`
	Parameters   datatypes.JSON               `gorm:"type:jsonb" json:"parameters"`
	Messages     datatypes.JSONSlice[Message] `gorm:"type:jsonb" json:"messages"`
	Variables    datatypes.JSON               `gorm:"type:jsonb" json:"variables"`
	Functions    datatypes.JSON               `gorm:"type:jsonb" json:"functions"`
	ToolChoice   *string                      `gorm:"size:255" json:"toolChoice"`
	BatchConfigs datatypes.JSON               `gorm:"type:jsonb" json:"batchConfigs"`
	CreatedAt    time.Time                    `json:"created"`
	UpdatedAt    time.Time                    `json:"updated"`
}

func (p *Prompt) Owner() uuid.UUID { return p.OwnerID }
func (p *Prompt) IsDeleted() bool  { return p.State.IsDeleted() }

// NewPrompt returns a prompt carrying the default model configuration and
// an empty system/user message pair.
func NewPrompt(owner, suite uuid.UUID, name string) *Prompt {
	if name == "" {
		name = DefaultPromptName
	}
	return &Prompt{
		ID:         uuid.New(),
		Name:       name,
		OwnerID:    owner,
		SuiteID:    suite,
		State:      LifecycleActive,
		Parameters: datatypes.JSON(defaultPromptParameters),
		Messages: datatypes.JSONSlice[Message]{
			{Role: "system", Content: ""},
			{Role: "user", Content: ""},
		},
	}
}
