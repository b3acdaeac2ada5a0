package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dockly/dockly-api/internal/config"
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
)

const (
	fitbitTokenURL = "https://api.fitbit.com/oauth2/token"
	fitbitAPIURL   = "https://api.fitbit.com/1"
)

var (
	fitbitClientID     string
	fitbitClientSecret string

	fitbitHTTP = &http.Client{Timeout: 30 * time.Second}
)

func InitFitbit(cfg *config.Config) {
	fitbitClientID = cfg.FitbitClientID
	fitbitClientSecret = cfg.FitbitClientSecret
}

// FitbitDailySummary is the subset of the daily activity summary the health
// module records.
type FitbitDailySummary struct {
	Steps         float64
	CaloriesOut   float64
	RestingHeart  float64
	ActiveMinutes float64
}

func refreshFitbitToken(ctx context.Context, account *models.ConnectedAccount) error {
	if account.RefreshToken == "" {
		return fmt.Errorf("access token expired and no refresh token stored")
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {account.RefreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fitbitTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(fitbitClientID + ":" + fitbitClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := fitbitHTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var tok struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK || tok.AccessToken == "" {
		return fmt.Errorf("fitbit token refresh returned %d", resp.StatusCode)
	}

	expiry := time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	saveTokens(account, tok.AccessToken, expiry)
	if tok.RefreshToken != "" {
		// Fitbit rotates refresh tokens on every exchange.
		account.RefreshToken = tok.RefreshToken
		if err := database.DB.Model(account).Update("refresh_token", tok.RefreshToken).Error; err != nil {
			log.Printf("fitbit: failed to persist rotated refresh token for %s: %v", account.Email, err)
		}
	}
	return nil
}

// FetchFitbitDailySummary pulls the activity summary for one calendar date.
func FetchFitbitDailySummary(ctx context.Context, account *models.ConnectedAccount, date string) (*FitbitDailySummary, error) {
	if account.AccessToken == "" || account.Expired() {
		if err := refreshFitbitToken(ctx, account); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/user/-/activities/date/%s.json", fitbitAPIURL, date), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)

	resp, err := fitbitHTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("fitbit rejected the access token")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fitbit activities returned %d", resp.StatusCode)
	}

	var payload struct {
		Summary struct {
			Steps            float64 `json:"steps"`
			CaloriesOut      float64 `json:"caloriesOut"`
			RestingHeartRate float64 `json:"restingHeartRate"`
			VeryActiveMin    float64 `json:"veryActiveMinutes"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return &FitbitDailySummary{
		Steps:         payload.Summary.Steps,
		CaloriesOut:   payload.Summary.CaloriesOut,
		RestingHeart:  payload.Summary.RestingHeartRate,
		ActiveMinutes: payload.Summary.VeryActiveMin,
	}, nil
}
