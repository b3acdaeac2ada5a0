package services

import (
	"context"
	"log"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
)

// SyncToCalendars mirrors one Dockly entity to every active Google and
// Outlook account the owner has connected. Fire-and-forget with captured
// result: the local write this mirrors is already committed, so failures are
// returned as outcomes, never as errors.
func SyncToCalendars(ctx context.Context, ownerID uuid.UUID, googleID, outlookID *string, summary, start, end string) (outcomes []SyncOutcome, newGoogleID, newOutlookID string) {
	var accounts []models.ConnectedAccount
	if err := database.DB.Where("user_id = ? AND is_active = ?", ownerID, true).
		Where("provider IN ?", []string{models.ProviderGoogle, models.ProviderMicrosoft, models.ProviderOutlook}).
		Find(&accounts).Error; err != nil {
		log.Printf("calsync: account lookup failed for %s: %v", ownerID, err)
		return nil, "", ""
	}

	for i := range accounts {
		account := &accounts[i]
		switch account.Provider {
		case models.ProviderGoogle:
			outcome := UpsertGoogleEvent(ctx, account, googleID, summary, start, end)
			if outcome.Succeeded {
				newGoogleID = outcome.EventID
			}
			outcomes = append(outcomes, outcome)
		case models.ProviderMicrosoft, models.ProviderOutlook:
			outcome := UpsertOutlookEvent(ctx, account, outlookID, summary, start, end)
			if outcome.Succeeded {
				newOutlookID = outcome.EventID
			}
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes, newGoogleID, newOutlookID
}
