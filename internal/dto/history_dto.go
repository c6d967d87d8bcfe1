package dto

import (
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
)

type AddHistoryRequest struct {
	PromptID string         `json:"promptId"`
	History  *HistoryRecord `json:"history"`
}

// HistoryRecord is one client-side execution. ExecutionTime is in unix milliseconds.
type HistoryRecord struct {
	Executions        json.RawMessage `json:"executions"`
	SystemFingerprint string          `json:"systemFingerprint"`
	ExecutionTime     int64           `json:"executionTime"`
	Config            json.RawMessage `json:"config"`
}

// LabelHistoryRequest keeps label raw so a wrong type is reported as an
// invalid label rather than a malformed body.
type LabelHistoryRequest struct {
	ID    string          `json:"id"`
	Label json.RawMessage `json:"label"`
}

type ClearHistoryRequest struct {
	PromptID string `json:"promptId"`
}

// ListHistoryRequest accepts page numbers as JSON numbers or numeric strings.
type ListHistoryRequest struct {
	PromptID  string          `json:"promptId"`
	PageSize  json.RawMessage `json:"pageSize"`
	PageIndex json.RawMessage `json:"pageIndex"`
	Filter    *HistoryFilter  `json:"filter"`
}

type HistoryFilter struct {
	Label json.RawMessage `json:"label"`
}

type HistoryPage struct {
	Histories  []models.History `json:"histories"`
	ReachLimit bool             `json:"reachLimit"`
}
