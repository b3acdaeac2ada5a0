package handlers

import (
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateCheckoutSession starts the paid-member upgrade flow.
func CreateCheckoutSession(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var user models.User
	if err := database.DB.First(&user, "id = ? AND is_active = ?", userID, true).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "User not found")
	}

	if user.Role == models.RolePaidMember {
		return respondErr(c, fiber.StatusConflict, "Already a paid member")
	}

	url, err := services.CreateCheckoutSession(&user)
	if err != nil {
		services.Audit(userID, "create_checkout", "billing", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create checkout session")
	}

	services.Audit(userID, "create_checkout", "billing", "", true, "", nil)
	return respondOK(c, "Checkout session created", fiber.Map{"url": url})
}

// StripeWebhook receives billing events. It is unauthenticated; the payload
// signature is the credential.
func StripeWebhook(c *fiber.Ctx) error {
	if err := services.HandleStripeWebhook(c.Body(), c.Get("Stripe-Signature")); err != nil {
		services.Audit(uuid.Nil, "stripe_webhook", "billing", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}
	return respondOK(c, "OK", nil)
}
