package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dockly/dockly-api/internal/config"
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
)

// Microsoft identity platform and Graph endpoints. There is no Graph SDK in
// use here; the two calls involved are plain REST. Vars so tests can point
// them at a stub server.
var (
	outlookTokenURL = "https://login.microsoftonline.com/common/oauth2/v2.0/token"
	graphBaseURL    = "https://graph.microsoft.com/v1.0"
)

var (
	outlookClientID     string
	outlookClientSecret string

	outlookHTTP = &http.Client{Timeout: 30 * time.Second}
)

func InitOutlook(cfg *config.Config) {
	outlookClientID = cfg.OutlookClientID
	outlookClientSecret = cfg.OutlookClientSecret
}

type outlookTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// refreshOutlookToken exchanges the stored refresh token at the identity
// platform endpoint and persists the new access token.
func refreshOutlookToken(ctx context.Context, account *models.ConnectedAccount) error {
	if account.RefreshToken == "" {
		return errors.New("access token expired and no refresh token stored")
	}

	form := url.Values{
		"client_id":     {outlookClientID},
		"client_secret": {outlookClientSecret},
		"refresh_token": {account.RefreshToken},
		"grant_type":    {"refresh_token"},
		"scope":         {"offline_access Calendars.ReadWrite"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, outlookTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := outlookHTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var tok outlookTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || tok.AccessToken == "" {
		return fmt.Errorf("token refresh failed: %s %s", tok.Error, tok.ErrorDesc)
	}

	expiry := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	saveTokens(account, tok.AccessToken, expiry)
	if tok.RefreshToken != "" {
		// The identity platform rotates refresh tokens on exchange.
		account.RefreshToken = tok.RefreshToken
		if err := database.DB.Model(account).Update("refresh_token", tok.RefreshToken).Error; err != nil {
			log.Printf("outlook: failed to persist rotated refresh token for %s: %v", account.Email, err)
		}
	}
	return nil
}

// outlookBearer returns a usable access token, refreshing first when the
// stored token is expired or does not look like a structured bearer token.
func outlookBearer(ctx context.Context, account *models.ConnectedAccount) (string, error) {
	structured := strings.Count(account.AccessToken, ".") >= 2
	if account.AccessToken == "" || account.Expired() || !structured {
		if err := refreshOutlookToken(ctx, account); err != nil {
			return "", err
		}
	}
	return account.AccessToken, nil
}

func graphRequest(ctx context.Context, account *models.ConnectedAccount, method, path string, body interface{}) ([]byte, int, error) {
	bearer, err := outlookBearer(ctx, account)
	if err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, graphBaseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := outlookHTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return data, resp.StatusCode, err
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type graphEvent struct {
	ID       string        `json:"id"`
	Subject  string        `json:"subject"`
	Start    graphDateTime `json:"start"`
	End      graphDateTime `json:"end"`
	IsAllDay bool          `json:"isAllDay"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

// FetchOutlookEvents lists Graph events over a 7-day forward window with a
// fixed field subset, remapped into the merged-calendar shape
// (summary comes from subject).
func FetchOutlookEvents(ctx context.Context, account *models.ConnectedAccount, color string) ([]planner.CalendarEvent, error) {
	now := time.Now().UTC()
	filter := fmt.Sprintf("start/dateTime ge '%s' and start/dateTime le '%s'",
		now.Format("2006-01-02T15:04:05"), now.AddDate(0, 0, 7).Format("2006-01-02T15:04:05"))

	path := "/me/events?" + url.Values{
		"$filter":  {filter},
		"$select":  {"id,subject,start,end,location,isAllDay"},
		"$top":     {"50"},
		"$orderby": {"start/dateTime"},
	}.Encode()

	data, status, err := graphRequest(ctx, account, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("graph list events returned %d: %s", status, truncate(data, 200))
	}

	var payload struct {
		Value []graphEvent `json:"value"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	events := make([]planner.CalendarEvent, 0, len(payload.Value))
	for _, item := range payload.Value {
		events = append(events, planner.CalendarEvent{
			ID:           item.ID,
			Summary:      item.Subject,
			Start:        planner.EventTime{DateTime: graphTimestamp(item.Start)},
			End:          planner.EventTime{DateTime: graphTimestamp(item.End)},
			Type:         "external",
			Source:       models.ProviderOutlook,
			SourceEmail:  account.Email,
			Provider:     models.ProviderOutlook,
			AccountColor: color,
			UserID:       account.UserID.String(),
		})
	}
	return events, nil
}

// graphTimestamp normalizes Graph's fractional, zone-less timestamps to
// RFC3339 UTC.
func graphTimestamp(t graphDateTime) string {
	s := t.DateTime
	if i := strings.Index(s, "."); i > 0 {
		s = s[:i]
	}
	if s != "" && !strings.HasSuffix(s, "Z") {
		s += "Z"
	}
	return s
}

// UpsertOutlookEvent mirrors a Dockly entity into the account's Outlook
// calendar: PATCH when a mirror id exists, POST on not-found or first sync.
func UpsertOutlookEvent(ctx context.Context, account *models.ConnectedAccount, eventID *string, summary, start, end string) SyncOutcome {
	body := map[string]interface{}{
		"subject": summary,
		"start":   graphDateTime{DateTime: strings.TrimSuffix(start, "Z"), TimeZone: "UTC"},
		"end":     graphDateTime{DateTime: strings.TrimSuffix(end, "Z"), TimeZone: "UTC"},
	}

	if eventID != nil && *eventID != "" {
		data, status, err := graphRequest(ctx, account, http.MethodPatch, "/me/events/"+*eventID, body)
		if err != nil {
			return syncFailed(models.ProviderOutlook, err)
		}
		if status == http.StatusOK {
			return syncOK(models.ProviderOutlook, *eventID)
		}
		if status != http.StatusNotFound {
			return syncFailed(models.ProviderOutlook, fmt.Errorf("graph update returned %d: %s", status, truncate(data, 200)))
		}
		// Remote mirror is gone; create a new one.
	}

	data, status, err := graphRequest(ctx, account, http.MethodPost, "/me/events", body)
	if err != nil {
		return syncFailed(models.ProviderOutlook, err)
	}
	if status != http.StatusCreated {
		return syncFailed(models.ProviderOutlook, fmt.Errorf("graph create returned %d: %s", status, truncate(data, 200)))
	}

	var created graphEvent
	if err := json.Unmarshal(data, &created); err != nil {
		return syncFailed(models.ProviderOutlook, err)
	}
	return syncOK(models.ProviderOutlook, created.ID)
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
