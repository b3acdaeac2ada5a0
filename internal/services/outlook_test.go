package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceDB(t *testing.T) {
	t.Helper()
	// A named shared-cache memory database survives the sql.DB connection
	// pool; a fresh name per test keeps tests isolated.
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.ConnectedAccount{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
}

func TestOutlookRefreshPersistsRotatedToken(t *testing.T) {
	setupServiceDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"new-access","refresh_token":"rotated-refresh","expires_in":3600}`))
	}))
	defer srv.Close()
	original := outlookTokenURL
	outlookTokenURL = srv.URL
	defer func() { outlookTokenURL = original }()

	account := models.ConnectedAccount{
		UserID:       uuid.New(),
		Provider:     models.ProviderOutlook,
		Email:        "o@example.com",
		AccessToken:  "stale",
		RefreshToken: "old-refresh",
		IsActive:     true,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}

	if err := refreshOutlookToken(context.Background(), &account); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if account.AccessToken != "new-access" || account.RefreshToken != "rotated-refresh" {
		t.Errorf("in-memory tokens = %q/%q", account.AccessToken, account.RefreshToken)
	}

	// The rotation must survive the request: a later refresh loads the row
	// fresh and the old token is already dead at the provider.
	var row models.ConnectedAccount
	if err := database.DB.First(&row, "id = ?", account.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if row.RefreshToken != "rotated-refresh" {
		t.Errorf("stored refresh_token = %q, want the rotated value", row.RefreshToken)
	}
	if row.AccessToken != "new-access" {
		t.Errorf("stored access_token = %q", row.AccessToken)
	}
	if row.ExpiresAt == nil {
		t.Error("expires_at not persisted")
	}
}
