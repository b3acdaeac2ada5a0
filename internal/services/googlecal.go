package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dockly/dockly-api/internal/config"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var googleOAuth *oauth2.Config

func InitGoogle(cfg *config.Config) {
	googleOAuth = &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarScope},
	}
}

// googleToken builds a usable token for the account, refreshing and
// persisting when expired. An invalid grant (revoked consent) deactivates
// the account; a merely expired token without a refresh token is an error
// the caller skips.
func googleToken(ctx context.Context, account *models.ConnectedAccount) (*oauth2.Token, error) {
	tok := &oauth2.Token{
		AccessToken:  account.AccessToken,
		RefreshToken: account.RefreshToken,
	}
	if account.ExpiresAt != nil {
		tok.Expiry = *account.ExpiresAt
	}

	if tok.Valid() {
		return tok, nil
	}
	if tok.RefreshToken == "" {
		return nil, errors.New("access token expired and no refresh token stored")
	}

	fresh, err := googleOAuth.TokenSource(ctx, tok).Token()
	if err != nil {
		if strings.Contains(err.Error(), "invalid_grant") {
			deactivateAccount(account)
		}
		return nil, err
	}

	if fresh.AccessToken != account.AccessToken {
		saveTokens(account, fresh.AccessToken, fresh.Expiry)
	}
	return fresh, nil
}

func googleService(ctx context.Context, account *models.ConnectedAccount) (*calendar.Service, error) {
	tok, err := googleToken(ctx, account)
	if err != nil {
		return nil, err
	}
	return calendar.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(tok)))
}

// FetchGoogleEvents lists primary-calendar events from 7 days back onward
// and normalizes them into the merged-calendar shape.
func FetchGoogleEvents(ctx context.Context, account *models.ConnectedAccount, color string) ([]planner.CalendarEvent, error) {
	svc, err := googleService(ctx, account)
	if err != nil {
		return nil, err
	}

	timeMin := time.Now().AddDate(0, 0, -7).Format(time.RFC3339)
	result, err := svc.Events.List("primary").
		TimeMin(timeMin).
		MaxResults(100).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, err
	}

	events := make([]planner.CalendarEvent, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, planner.CalendarEvent{
			ID:           item.Id,
			Summary:      item.Summary,
			Start:        planner.EventTime{DateTime: googleEventTime(item.Start)},
			End:          planner.EventTime{DateTime: googleEventTime(item.End)},
			Type:         "external",
			Source:       models.ProviderGoogle,
			SourceEmail:  account.Email,
			Provider:     models.ProviderGoogle,
			AccountColor: color,
			UserID:       account.UserID.String(),
		})
	}
	return events, nil
}

func googleEventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	if t.Date != "" {
		return t.Date + "T00:00:00Z"
	}
	return ""
}

// UpsertGoogleEvent mirrors a Dockly entity onto the account's primary
// calendar. When eventID refers to an event the provider no longer knows, a
// fresh event is inserted; that fallback is an explicit not-found case, not a
// catch-all.
func UpsertGoogleEvent(ctx context.Context, account *models.ConnectedAccount, eventID *string, summary, start, end string) SyncOutcome {
	svc, err := googleService(ctx, account)
	if err != nil {
		return syncFailed(models.ProviderGoogle, err)
	}

	event := &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{DateTime: start},
		End:     &calendar.EventDateTime{DateTime: end},
	}

	if eventID != nil && *eventID != "" {
		updated, err := svc.Events.Update("primary", *eventID, event).Do()
		if err == nil {
			return syncOK(models.ProviderGoogle, updated.Id)
		}
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != 404 {
			return syncFailed(models.ProviderGoogle, err)
		}
		// Remote mirror is gone; fall through to insert a new one.
	}

	created, err := svc.Events.Insert("primary", event).Do()
	if err != nil {
		return syncFailed(models.ProviderGoogle, err)
	}
	return syncOK(models.ProviderGoogle, created.Id)
}

// DeleteGoogleEvent removes the remote mirror. Already-gone is success.
func DeleteGoogleEvent(ctx context.Context, account *models.ConnectedAccount, eventID string) SyncOutcome {
	svc, err := googleService(ctx, account)
	if err != nil {
		return syncFailed(models.ProviderGoogle, err)
	}
	if err := svc.Events.Delete("primary", eventID).Do(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == 404 || apiErr.Code == 410) {
			return syncOK(models.ProviderGoogle, eventID)
		}
		return syncFailed(models.ProviderGoogle, err)
	}
	return syncOK(models.ProviderGoogle, eventID)
}
