package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
	ProviderOutlook   = "outlook"
	ProviderDropbox   = "dropbox"
	ProviderFitbit    = "fitbit"
)

// ConnectedAccount pairs one user with one external provider. Token refresh
// mutates access_token/expires_at in place; an account whose grant the
// provider reports as invalid is marked inactive rather than deleted.
type ConnectedAccount struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index:idx_user_provider_email"`
	Provider     string         `json:"provider" gorm:"not null;index:idx_user_provider_email"`
	Email        string         `json:"email" gorm:"not null;index:idx_user_provider_email"`
	AccessToken  string         `json:"-" gorm:"type:text"`
	RefreshToken string         `json:"-" gorm:"type:text"`
	ExpiresAt    *time.Time     `json:"expiresAt"`
	UserObject   datatypes.JSON `json:"userObject"`
	IsActive     bool           `json:"isActive" gorm:"default:true"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (ca *ConnectedAccount) BeforeCreate(tx *gorm.DB) error {
	if ca.ID == uuid.Nil {
		ca.ID = uuid.New()
	}
	return nil
}

func (ca *ConnectedAccount) Expired() bool {
	return ca.ExpiresAt != nil && time.Now().After(*ca.ExpiresAt)
}

// ConnectedAccount DTOs
type SaveConnectedAccountRequest struct {
	Provider     string  `json:"provider" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	AccessToken  string  `json:"accessToken" validate:"required"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresAt    *string `json:"expiresAt"` // RFC3339
}
