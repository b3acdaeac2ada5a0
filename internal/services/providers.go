package services

import (
	"log"
	"time"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
)

// ProviderError is one connected account's non-fatal failure, surfaced to the
// caller alongside whatever the other accounts returned.
type ProviderError struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// saveTokens persists a refreshed access token and expiry back onto the
// account row. Last write wins.
func saveTokens(account *models.ConnectedAccount, accessToken string, expiry time.Time) {
	account.AccessToken = accessToken
	if !expiry.IsZero() {
		account.ExpiresAt = &expiry
	}
	if err := database.DB.Model(account).Updates(map[string]interface{}{
		"access_token": account.AccessToken,
		"expires_at":   account.ExpiresAt,
	}).Error; err != nil {
		log.Printf("providers: failed to persist refreshed token for %s/%s: %v", account.Provider, account.Email, err)
	}
}

// deactivateAccount flags an account whose grant the provider rejected as
// invalid (as opposed to merely expired). The row is kept for reconnection.
func deactivateAccount(account *models.ConnectedAccount) {
	if err := database.DB.Model(account).Update("is_active", false).Error; err != nil {
		log.Printf("providers: failed to deactivate %s/%s: %v", account.Provider, account.Email, err)
	}
}
