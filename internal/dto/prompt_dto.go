package dto

import (
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
)

type CreatePromptRequest struct {
	Name    string `json:"name"`
	SuiteID string `json:"suiteId"`
}

type DuplicatePromptRequest struct {
	PromptID string `json:"promptId"`
}

// SyncPromptRequest replaces every editable field of a prompt.
type SyncPromptRequest struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	SuiteID      string           `json:"suiteId"`
	Parameters   json.RawMessage  `json:"parameters"`
	Messages     []models.Message `json:"messages"`
	Variables    json.RawMessage  `json:"variables"`
	Functions    json.RawMessage  `json:"functions"`
	ToolChoice   *string          `json:"toolChoice"`
	BatchConfigs json.RawMessage  `json:"batchConfigs"`
}

type PromptDetail struct {
	models.Prompt
	SuiteName string `json:"suiteName"`
}
