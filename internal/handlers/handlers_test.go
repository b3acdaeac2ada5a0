package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// envelope mirrors the response shape every endpoint emits.
type envelope struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Payload map[string]interface{} `json:"payload"`
	Error   string                 `json:"error"`
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.FamilyMember{}, &models.Goal{}, &models.Todo{},
		&models.Note{}, &models.PlannerEvent{}, &models.Bookmark{},
		&models.Project{}, &models.Task{}, &models.HealthRecord{},
		&models.Medication{}, &models.HomeAsset{}, &models.MaintenanceTask{},
		&models.ConnectedAccount{}, &models.Notification{}, &models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	app := fiber.New()
	app.Get("/get/planner-data-comprehensive", middleware.OptionalAuth(), GetPlannerData)

	protected := app.Group("/api", middleware.Protected())

	family := protected.Group("/family")
	family.Get("/members", GetFamilyMembers)
	family.Post("/invite", InviteMembers)
	family.Delete("/members/:id", RemoveMember)

	goals := protected.Group("/goals")
	goals.Get("/", GetGoals)
	goals.Post("/", CreateGoal)
	goals.Put("/:id", UpdateGoal)
	goals.Delete("/:id", DeleteGoal)

	notes := protected.Group("/notes")
	notes.Get("/", GetNotes)
	notes.Post("/", CreateNote)
	notes.Put("/:id", UpdateNote)
	notes.Delete("/:id", DeleteNote)

	bookmarks := protected.Group("/bookmarks")
	bookmarks.Get("/", GetBookmarks)
	bookmarks.Post("/", CreateBookmark)
	bookmarks.Post("/:id/favorite", ToggleFavorite)
	bookmarks.Post("/:id/share", ShareBookmark)
	bookmarks.Delete("/:id", DeleteBookmark)

	return app
}

func createUserWithToken(t *testing.T, email, role string) (models.User, string) {
	t.Helper()
	user := models.User{Email: email, UserName: email, Name: strings.Split(email, "@")[0], Role: role, IsActive: true}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, env
}

func TestProtectedRejectsMissingToken(t *testing.T) {
	app := setupTestApp(t)

	code, env := doRequest(t, app, http.MethodGet, "/api/goals/", "", "")
	if code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
	if env.Status != 0 {
		t.Errorf("status = %d, want 0", env.Status)
	}
}
