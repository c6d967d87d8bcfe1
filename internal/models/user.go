package models

import (
	"time"

	"github.com/google/uuid"
)

type Membership string

const (
	MembershipBasic Membership = "basic"
	MembershipPlus  Membership = "plus"
)

// APISettings holds the user's own LLM provider credentials.
type APISettings struct {
	APIKey         string `gorm:"column:api_key;size:255" json:"apiKey"`
	IsCustom       bool   `gorm:"column:is_custom;default:false" json:"isCustom"`
	CustomEndpoint string `gorm:"column:custom_endpoint;size:1024" json:"customEndpoint"`
}

type User struct {
	ID                uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email             string      `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name              string      `gorm:"not null;size:255" json:"name"`
	Avatar            string      `gorm:"size:1024" json:"avatar"`
	Membership        Membership  `gorm:"size:20;not null;default:'basic'" json:"membership"`
	ExpiresAt         *time.Time  `json:"expiresAt"`
	PaymentCustomerID string      `gorm:"size:255;index" json:"-"`
	GoogleID          string      `gorm:"size:255;index" json:"-"`
	Settings          APISettings `gorm:"embedded;embeddedPrefix:openai_" json:"openaiSettings"`
	State             Lifecycle   `gorm:"size:20;not null;default:'active';index" json:"-"`
	CreatedAt         time.Time   `json:"created"`
	UpdatedAt         time.Time   `json:"updated"`
}

// EffectiveMembership downgrades an expired plus membership to basic.
// The stored row is left untouched.
func (u *User) EffectiveMembership(now time.Time) Membership {
	if u.ExpiresAt != nil && now.After(*u.ExpiresAt) {
		return MembershipBasic
	}
	if u.Membership == "" {
		return MembershipBasic
	}
	return u.Membership
}

func (u *User) IsDeleted() bool {
	return u.State.IsDeleted()
}
