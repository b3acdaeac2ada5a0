package handlers

import (
	"net/http"
	"testing"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
)

func TestCreateGoalValidation(t *testing.T) {
	app := setupTestApp(t)
	_, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	code, env := doRequest(t, app, http.MethodPost, "/api/goals/", token, `{"title":"","date":""}`)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("code = %d, want 422", code)
	}
	if env.Status != 0 {
		t.Errorf("status = %d, want 0", env.Status)
	}
}

func TestGoalLifecycle(t *testing.T) {
	app := setupTestApp(t)
	user, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	code, env := doRequest(t, app, http.MethodPost, "/api/goals/", token,
		`{"title":"Pay rent","date":"2024-03-01"}`)
	if code != http.StatusCreated {
		t.Fatalf("create: code = %d, body %+v", code, env)
	}
	goal := env.Payload["goal"].(map[string]interface{})
	goalID := goal["id"].(string)

	code, env = doRequest(t, app, http.MethodGet, "/api/goals/", token, "")
	if code != http.StatusOK {
		t.Fatalf("list: code = %d", code)
	}
	if goals := env.Payload["goals"].([]interface{}); len(goals) != 1 {
		t.Errorf("list len = %d, want 1", len(goals))
	}

	code, env = doRequest(t, app, http.MethodPut, "/api/goals/"+goalID, token,
		`{"completed":true}`)
	if code != http.StatusOK {
		t.Fatalf("update: code = %d, body %+v", code, env)
	}

	var stored models.Goal
	if err := database.DB.First(&stored, "id = ?", goalID).Error; err != nil {
		t.Fatalf("load goal: %v", err)
	}
	if !stored.Completed {
		t.Error("completed flag not persisted")
	}
	if stored.UserID != user.ID {
		t.Error("goal owner mismatch")
	}
}

func TestDeleteGoalIdempotent(t *testing.T) {
	app := setupTestApp(t)
	_, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	_, env := doRequest(t, app, http.MethodPost, "/api/goals/", token,
		`{"title":"Pay rent","date":"2024-03-01"}`)
	goalID := env.Payload["goal"].(map[string]interface{})["id"].(string)

	code, _ := doRequest(t, app, http.MethodDelete, "/api/goals/"+goalID, token, "")
	if code != http.StatusOK {
		t.Fatalf("first delete: code = %d", code)
	}

	// Row survives, flagged inactive.
	var stored models.Goal
	if err := database.DB.First(&stored, "id = ?", goalID).Error; err != nil {
		t.Fatalf("row gone after soft delete: %v", err)
	}
	if stored.IsActive {
		t.Error("goal still active after delete")
	}

	code, env = doRequest(t, app, http.MethodDelete, "/api/goals/"+goalID, token, "")
	if code != http.StatusNotFound {
		t.Errorf("second delete: code = %d, want 404", code)
	}
	if env.Status != 0 {
		t.Errorf("second delete status = %d, want 0", env.Status)
	}
}

func TestDeleteGoalScopedToOwner(t *testing.T) {
	app := setupTestApp(t)
	_, aliceToken := createUserWithToken(t, "alice@example.com", models.RoleGuest)
	_, bobToken := createUserWithToken(t, "bob@example.com", models.RoleGuest)

	_, env := doRequest(t, app, http.MethodPost, "/api/goals/", aliceToken,
		`{"title":"Private","date":"2024-03-01"}`)
	goalID := env.Payload["goal"].(map[string]interface{})["id"].(string)

	code, _ := doRequest(t, app, http.MethodDelete, "/api/goals/"+goalID, bobToken, "")
	if code != http.StatusNotFound {
		t.Errorf("cross-user delete: code = %d, want 404", code)
	}
}
