package dto

import (
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
)

type SendOTPRequest struct {
	Email string `json:"email"`
}

type EmailLoginRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type GoogleLoginRequest struct {
	Code string `json:"code"`
}

type UpdateUserRequest struct {
	Name string `json:"name"`
}

type UpdateSettingsRequest struct {
	OpenAISettings *SettingsInput `json:"openaiSettings"`
}

// SettingsInput is the raw form of APISettings. Fields are typed by the
// settings validation so each one maps to its own error code.
type SettingsInput struct {
	APIKey         json.RawMessage `json:"apiKey"`
	IsCustom       json.RawMessage `json:"isCustom"`
	CustomEndpoint json.RawMessage `json:"customEndpoint"`
}

type APISettings struct {
	APIKey         string `json:"apiKey"`
	IsCustom       bool   `json:"isCustom"`
	CustomEndpoint string `json:"customEndpoint"`
}

// UserInfo is returned by login and by the profile endpoint. Token and
// LatestPromptID are only filled on login.
type UserInfo struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Avatar         string            `json:"avatar,omitempty"`
	Membership     models.Membership `json:"membership"`
	OpenAISettings APISettings       `json:"openaiSettings"`
	LatestPromptID *uuid.UUID        `json:"latestPromptId,omitempty"`
	Newcomer       bool              `json:"newcomer"`
	Token          string            `json:"token,omitempty"`
}
