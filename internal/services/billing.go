package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/dockly/dockly-api/internal/config"
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	stripePriceID       string
	stripeWebhookSecret string
	billingEnabled      bool
	clientURL           string
)

func InitBilling(cfg *config.Config) {
	if cfg.StripeSecretKey == "" {
		log.Println("Stripe: no secret key configured, billing disabled")
		return
	}
	stripe.Key = cfg.StripeSecretKey
	stripePriceID = cfg.StripePriceID
	stripeWebhookSecret = cfg.StripeWebhookSecret
	clientURL = cfg.ClientURL
	billingEnabled = true
}

// CreateCheckoutSession starts a subscription checkout for the paid-member
// upgrade, creating the Stripe customer on first use.
func CreateCheckoutSession(user *models.User) (string, error) {
	if !billingEnabled {
		return "", fmt.Errorf("billing is not configured")
	}

	if user.StripeCustomerID == "" {
		cust, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Name),
		})
		if err != nil {
			return "", err
		}
		user.StripeCustomerID = cust.ID
		if err := database.DB.Model(user).Update("stripe_customer_id", cust.ID).Error; err != nil {
			return "", err
		}
	}

	sess, err := session.New(&stripe.CheckoutSessionParams{
		Customer:          stripe.String(user.StripeCustomerID),
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(user.ID.String()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(stripePriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL: stripe.String(clientURL + "/billing/success"),
		CancelURL:  stripe.String(clientURL + "/billing/cancelled"),
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// HandleStripeWebhook verifies and applies a Stripe event. Completed
// checkouts upgrade the referenced user to paid member; subscription
// deletion downgrades back to guest.
func HandleStripeWebhook(payload []byte, signature string) error {
	if !billingEnabled {
		return fmt.Errorf("billing is not configured")
	}

	event, err := webhook.ConstructEvent(payload, signature, stripeWebhookSecret)
	if err != nil {
		return err
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		if sess.ClientReferenceID == "" {
			return nil
		}
		return database.DB.Model(&models.User{}).
			Where("id = ?", sess.ClientReferenceID).
			Update("role", models.RolePaidMember).Error

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		if sub.Customer == nil {
			return nil
		}
		return database.DB.Model(&models.User{}).
			Where("stripe_customer_id = ?", sub.Customer.ID).
			Update("role", models.RoleGuest).Error
	}

	return nil
}
