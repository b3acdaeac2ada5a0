package handlers

import (
	"strings"
	"time"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var knownProviders = map[string]bool{
	models.ProviderGoogle:    true,
	models.ProviderMicrosoft: true,
	models.ProviderOutlook:   true,
	models.ProviderDropbox:   true,
	models.ProviderFitbit:    true,
}

// connectedAccountView is the redacted shape returned to clients; tokens
// never leave the server.
type connectedAccountView struct {
	ID        uuid.UUID  `json:"id"`
	Provider  string     `json:"provider"`
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expiresAt"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

func GetConnectedAccounts(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var accounts []models.ConnectedAccount
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("provider ASC, email ASC").
		Find(&accounts).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch connected accounts")
	}

	views := make([]connectedAccountView, len(accounts))
	for i, a := range accounts {
		views[i] = connectedAccountView{
			ID:        a.ID,
			Provider:  a.Provider,
			Email:     a.Email,
			ExpiresAt: a.ExpiresAt,
			IsActive:  a.IsActive,
			CreatedAt: a.CreatedAt,
		}
	}

	return respondOK(c, "OK", fiber.Map{"accounts": views})
}

// SaveConnectedAccount upserts on (user, provider, email): reconnecting an
// account, active or not, replaces its tokens and reactivates it.
func SaveConnectedAccount(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.SaveConnectedAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !knownProviders[provider] {
		return respondErr(c, fiber.StatusUnprocessableEntity, "Unknown provider")
	}
	if email == "" || req.AccessToken == "" {
		return respondErr(c, fiber.StatusUnprocessableEntity, "Email and access token are required")
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return respondErr(c, fiber.StatusUnprocessableEntity, "expiresAt must be RFC3339")
		}
		expiresAt = &t
	}

	var account models.ConnectedAccount
	err := database.DB.Where("user_id = ? AND provider = ? AND email = ?",
		userID, provider, email).First(&account).Error
	if err == nil {
		account.AccessToken = req.AccessToken
		if req.RefreshToken != "" {
			account.RefreshToken = req.RefreshToken
		}
		account.ExpiresAt = expiresAt
		account.IsActive = true
		if err := database.DB.Save(&account).Error; err != nil {
			services.Audit(userID, "save_connected_account", "connected_account", account.ID.String(), false, err.Error(), nil)
			return respondErr(c, fiber.StatusInternalServerError, "Failed to save connected account")
		}
	} else {
		account = models.ConnectedAccount{
			UserID:       userID,
			Provider:     provider,
			Email:        email,
			AccessToken:  req.AccessToken,
			RefreshToken: req.RefreshToken,
			ExpiresAt:    expiresAt,
			IsActive:     true,
		}
		if err := database.DB.Create(&account).Error; err != nil {
			services.Audit(userID, "save_connected_account", "connected_account", "", false, err.Error(), nil)
			return respondErr(c, fiber.StatusInternalServerError, "Failed to save connected account")
		}
	}

	services.Audit(userID, "save_connected_account", "connected_account", account.ID.String(), true, "",
		map[string]interface{}{"provider": provider})
	return respondOK(c, "Account connected", fiber.Map{"account": connectedAccountView{
		ID:        account.ID,
		Provider:  account.Provider,
		Email:     account.Email,
		ExpiresAt: account.ExpiresAt,
		IsActive:  account.IsActive,
		CreatedAt: account.CreatedAt,
	}})
}

// DisconnectAccount deactivates the account; tokens stay on the row so a
// later reconnect can reuse the refresh token if the client omits one.
func DisconnectAccount(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid account ID")
	}

	result := database.DB.Model(&models.ConnectedAccount{}).
		Where("id = ? AND user_id = ? AND is_active = ?", accountID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Connected account not found or already inactive")
	}

	services.Audit(userID, "disconnect_account", "connected_account", accountID.String(), true, "", nil)
	return respondOK(c, "Account disconnected", nil)
}
