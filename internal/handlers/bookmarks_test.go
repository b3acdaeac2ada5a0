package handlers

import (
	"net/http"
	"testing"

	"github.com/dockly/dockly-api/internal/services"
)

func TestBookmarkFavoriteToggle(t *testing.T) {
	app := setupTestApp(t)
	_, token := createUserWithToken(t, "alice@example.com", "guest")

	_, env := doRequest(t, app, http.MethodPost, "/api/bookmarks/", token,
		`{"title":"Recipes","url":"https://example.com/recipes"}`)
	bookmarkID := env.Payload["bookmark"].(map[string]interface{})["id"].(string)

	code, env := doRequest(t, app, http.MethodPost, "/api/bookmarks/"+bookmarkID+"/favorite", token, "")
	if code != http.StatusOK {
		t.Fatalf("toggle: code = %d", code)
	}
	if env.Payload["isFavorite"] != true {
		t.Errorf("first toggle: isFavorite = %v", env.Payload["isFavorite"])
	}

	_, env = doRequest(t, app, http.MethodPost, "/api/bookmarks/"+bookmarkID+"/favorite", token, "")
	if env.Payload["isFavorite"] != false {
		t.Errorf("second toggle: isFavorite = %v", env.Payload["isFavorite"])
	}

	// Favorites filter only returns favorited bookmarks.
	_, env = doRequest(t, app, http.MethodGet, "/api/bookmarks/?favorites=true", token, "")
	if bookmarks := env.Payload["bookmarks"].([]interface{}); len(bookmarks) != 0 {
		t.Errorf("favorites filter returned %d bookmarks after untoggle", len(bookmarks))
	}
}

func TestShareBookmarkAllFailed(t *testing.T) {
	app := setupTestApp(t)
	_, token := createUserWithToken(t, "alice@example.com", "guest")

	// Mail is not configured in tests; every send fails, and an
	// all-recipients-failed share is an endpoint failure.
	services.Mail = nil

	_, env := doRequest(t, app, http.MethodPost, "/api/bookmarks/", token,
		`{"title":"Recipes","url":"https://example.com/recipes"}`)
	bookmarkID := env.Payload["bookmark"].(map[string]interface{})["id"].(string)

	code, env := doRequest(t, app, http.MethodPost, "/api/bookmarks/"+bookmarkID+"/share", token,
		`{"emails":["bob@example.com"]}`)
	if code != http.StatusOK {
		t.Fatalf("share: code = %d", code)
	}
	if env.Status != 0 {
		t.Errorf("status = %d, want 0 when every recipient failed", env.Status)
	}
	if env.Error == "" {
		t.Error("expected error detail on the envelope")
	}
}

func TestShareBookmarkRequiresEmails(t *testing.T) {
	app := setupTestApp(t)
	_, token := createUserWithToken(t, "alice@example.com", "guest")

	_, env := doRequest(t, app, http.MethodPost, "/api/bookmarks/", token,
		`{"title":"Recipes","url":"https://example.com/recipes"}`)
	bookmarkID := env.Payload["bookmark"].(map[string]interface{})["id"].(string)

	code, _ := doRequest(t, app, http.MethodPost, "/api/bookmarks/"+bookmarkID+"/share", token,
		`{"emails":[]}`)
	if code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", code)
	}
}
