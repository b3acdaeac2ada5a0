package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
)

func TestPlannerDataRequiresAuth(t *testing.T) {
	app := setupTestApp(t)

	code, env := doRequest(t, app, http.MethodGet, "/get/planner-data-comprehensive", "", "")
	if code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
	if env.Status != 0 {
		t.Errorf("status = %d, want 0", env.Status)
	}
}

func TestPlannerDataProjectsGoal(t *testing.T) {
	app := setupTestApp(t)
	user, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	goal := models.Goal{UserID: user.ID, Title: "Pay rent", Date: "2024-03-01", IsActive: true}
	if err := database.DB.Create(&goal).Error; err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	code, env := doRequest(t, app, http.MethodGet, "/get/planner-data-comprehensive", token, "")
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if env.Status != 1 {
		t.Fatalf("status = %d, error %q", env.Status, env.Error)
	}

	events := env.Payload["events"].([]interface{})
	if len(events) != 1 {
		t.Fatalf("events len = %d, want 1", len(events))
	}
	event := events[0].(map[string]interface{})

	if event["id"] != "goal_"+goal.ID.String() {
		t.Errorf("id = %v", event["id"])
	}
	if event["summary"] != "Pay rent" {
		t.Errorf("summary = %v", event["summary"])
	}
	if start := event["start"].(map[string]interface{}); start["dateTime"] != "2024-03-01T00:00:00Z" {
		t.Errorf("start = %v", start["dateTime"])
	}
	if end := event["end"].(map[string]interface{}); end["dateTime"] != "2024-03-01T23:59:59Z" {
		t.Errorf("end = %v", end["dateTime"])
	}
	if event["type"] != "goal" || event["provider"] != "dockly" {
		t.Errorf("type/provider = %v/%v", event["type"], event["provider"])
	}
	if event["user_id"] != user.ID.String() {
		t.Errorf("user_id = %v", event["user_id"])
	}

	// No Google accounts connected: upcoming falls back to the requester's
	// own Dockly events.
	upcoming := env.Payload["upcoming_events"].([]interface{})
	if len(upcoming) != 1 {
		t.Fatalf("upcoming len = %d, want 1", len(upcoming))
	}
	if upcoming[0].(map[string]interface{})["id"] != "goal_"+goal.ID.String() {
		t.Errorf("upcoming[0] = %v", upcoming[0])
	}

	// Guest with no family: the resolved member list is just the requester.
	members := env.Payload["family_members"].([]interface{})
	if len(members) != 1 {
		t.Fatalf("family_members len = %d, want 1", len(members))
	}
	if members[0].(map[string]interface{})["relationship"] != "me" {
		t.Errorf("self relationship = %v", members[0])
	}
}

func TestPlannerDataShowDocklyOff(t *testing.T) {
	app := setupTestApp(t)
	user, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	goal := models.Goal{UserID: user.ID, Title: "Hidden", Date: "2024-03-01", IsActive: true}
	database.DB.Create(&goal)

	code, env := doRequest(t, app, http.MethodGet,
		"/get/planner-data-comprehensive?show_dockly=false", token, "")
	if code != http.StatusOK || env.Status != 1 {
		t.Fatalf("code = %d, status = %d", code, env.Status)
	}

	if events := env.Payload["events"].([]interface{}); len(events) != 0 {
		t.Errorf("events len = %d, want 0 with show_dockly=false", len(events))
	}
	if upcoming := env.Payload["upcoming_events"].([]interface{}); len(upcoming) != 0 {
		t.Errorf("upcoming len = %d, want 0", len(upcoming))
	}
}

func TestPlannerDataProviderFailureIsPartial(t *testing.T) {
	app := setupTestApp(t)
	user, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	broken := models.ConnectedAccount{
		UserID: user.ID, Provider: models.ProviderGoogle,
		Email: "broken@gmail.com", AccessToken: "x", IsActive: true,
	}
	working := models.ConnectedAccount{
		UserID: user.ID, Provider: models.ProviderGoogle,
		Email: "working@gmail.com", AccessToken: "x", IsActive: true,
	}
	database.DB.Create(&broken)
	database.DB.Create(&working)

	goal := models.Goal{UserID: user.ID, Title: "Pay rent", Date: "2024-03-01", IsActive: true}
	database.DB.Create(&goal)

	origGoogle := fetchGoogleEvents
	defer func() { fetchGoogleEvents = origGoogle }()
	fetchGoogleEvents = func(ctx context.Context, account *models.ConnectedAccount, color string) ([]planner.CalendarEvent, error) {
		if account.Email == "broken@gmail.com" {
			return nil, errors.New("token refresh failed")
		}
		return []planner.CalendarEvent{{
			ID:          "g_remote",
			Summary:     "Standup",
			Start:       planner.EventTime{DateTime: "2024-03-01T09:00:00Z"},
			End:         planner.EventTime{DateTime: "2024-03-01T09:15:00Z"},
			Type:        "external",
			Source:      models.ProviderGoogle,
			SourceEmail: account.Email,
			Provider:    models.ProviderGoogle,
			UserID:      account.UserID.String(),
		}}, nil
	}

	code, env := doRequest(t, app, http.MethodGet, "/get/planner-data-comprehensive", token, "")
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if env.Status != 1 {
		t.Fatalf("one broken account must not fail the request: status = %d, error %q", env.Status, env.Error)
	}

	provErrs := env.Payload["errors"].([]interface{})
	if len(provErrs) != 1 {
		t.Fatalf("errors len = %d, want 1", len(provErrs))
	}
	e := provErrs[0].(map[string]interface{})
	if e["email"] != "broken@gmail.com" || e["provider"] != "google" {
		t.Errorf("provider error = %+v", e)
	}

	events := env.Payload["events"].([]interface{})
	if len(events) != 2 {
		t.Fatalf("events len = %d, want goal + working google event", len(events))
	}

	// Events sorted ascending: the 09:00 standup comes after the 00:00 goal.
	if events[0].(map[string]interface{})["id"] != "goal_"+goal.ID.String() {
		t.Errorf("events[0] = %v", events[0])
	}
	if events[1].(map[string]interface{})["id"] != "g_remote" {
		t.Errorf("events[1] = %v", events[1])
	}

	// Google connected: upcoming is google-only, dockly excluded.
	upcoming := env.Payload["upcoming_events"].([]interface{})
	if len(upcoming) != 1 || upcoming[0].(map[string]interface{})["id"] != "g_remote" {
		t.Errorf("upcoming = %v", upcoming)
	}
}

func TestPlannerDataFilteredEmails(t *testing.T) {
	app := setupTestApp(t)
	user, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	goal := models.Goal{UserID: user.ID, Title: "Mine", Date: "2024-03-01", IsActive: true}
	database.DB.Create(&goal)

	// The guest's projection carries their member email; filtering on a
	// different address must drop it.
	code, env := doRequest(t, app, http.MethodGet,
		"/get/planner-data-comprehensive?filtered_emails[]=someoneelse@example.com", token, "")
	if code != http.StatusOK || env.Status != 1 {
		t.Fatalf("code = %d, status = %d", code, env.Status)
	}
	if events := env.Payload["events"].([]interface{}); len(events) != 0 {
		t.Errorf("events len = %d, want 0 after filter", len(events))
	}

	code, env = doRequest(t, app, http.MethodGet,
		"/get/planner-data-comprehensive?filtered_emails[]=alice@example.com", token, "")
	if code != http.StatusOK || env.Status != 1 {
		t.Fatalf("code = %d, status = %d", code, env.Status)
	}
	if events := env.Payload["events"].([]interface{}); len(events) != 1 {
		t.Errorf("events len = %d, want 1 when the owner's email is allowed", len(events))
	}
}
