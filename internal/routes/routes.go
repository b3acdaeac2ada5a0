package routes

import (
	"github.com/dockly/dockly-api/internal/handlers"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	// Planner aggregation keeps its legacy path; clients predate the /api prefix.
	app.Get("/get/planner-data-comprehensive", middleware.OptionalAuth(), handlers.GetPlannerData)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/google", handlers.GoogleLogin)

	// Stripe calls this; it authenticates with its signature header.
	api.Post("/billing/webhook", handlers.StripeWebhook)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)
	protected.Put("/me/username", handlers.UpdateUserName)
	protected.Delete("/me", handlers.DeleteAccount)
	protected.Post("/device-token", handlers.RegisterDeviceToken)

	protected.Post("/billing/checkout", handlers.CreateCheckoutSession)

	family := protected.Group("/family")
	family.Get("/members", handlers.GetFamilyMembers)
	family.Post("/invite", handlers.InviteMembers)
	family.Put("/members/:id", handlers.UpdateMember)
	family.Delete("/members/:id", handlers.RemoveMember)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)

	todos := protected.Group("/todos")
	todos.Get("/", handlers.GetTodos)
	todos.Post("/", handlers.CreateTodo)
	todos.Put("/:id", handlers.UpdateTodo)
	todos.Delete("/:id", handlers.DeleteTodo)

	notes := protected.Group("/notes")
	notes.Get("/", handlers.GetNotes)
	notes.Post("/", handlers.CreateNote)
	notes.Put("/:id", handlers.UpdateNote)
	notes.Delete("/:id", handlers.DeleteNote)

	events := protected.Group("/events")
	events.Get("/", handlers.GetEvents)
	events.Post("/", handlers.CreateEvent)
	events.Put("/:id", handlers.UpdateEvent)
	events.Delete("/:id", handlers.DeleteEvent)

	bookmarks := protected.Group("/bookmarks")
	bookmarks.Get("/", handlers.GetBookmarks)
	bookmarks.Post("/", handlers.CreateBookmark)
	bookmarks.Put("/:id", handlers.UpdateBookmark)
	bookmarks.Post("/:id/favorite", handlers.ToggleFavorite)
	bookmarks.Post("/:id/share", handlers.ShareBookmark)
	bookmarks.Delete("/:id", handlers.DeleteBookmark)

	projects := protected.Group("/projects")
	projects.Get("/", handlers.GetProjects)
	projects.Post("/", handlers.CreateProject)
	projects.Get("/:id", handlers.GetProject)
	projects.Put("/:id", handlers.UpdateProject)
	projects.Delete("/:id", handlers.DeleteProject)
	projects.Post("/:id/tasks", handlers.CreateTask)
	projects.Put("/:id/tasks/:taskId", handlers.UpdateTask)
	projects.Delete("/:id/tasks/:taskId", handlers.DeleteTask)

	health := protected.Group("/health")
	health.Get("/records", handlers.GetHealthRecords)
	health.Post("/records", handlers.CreateHealthRecord)
	health.Delete("/records/:id", handlers.DeleteHealthRecord)
	health.Post("/sync/fitbit", handlers.SyncFitbit)
	health.Get("/medications", handlers.GetMedications)
	health.Post("/medications", handlers.CreateMedication)
	health.Put("/medications/:id", handlers.UpdateMedication)
	health.Delete("/medications/:id", handlers.DeleteMedication)

	home := protected.Group("/home")
	home.Get("/assets", handlers.GetHomeAssets)
	home.Post("/assets", handlers.CreateHomeAsset)
	home.Put("/assets/:id", handlers.UpdateHomeAsset)
	home.Delete("/assets/:id", handlers.DeleteHomeAsset)
	home.Post("/assets/:id/tasks", handlers.CreateMaintenanceTask)
	home.Put("/assets/:id/tasks/:taskId", handlers.UpdateMaintenanceTask)
	home.Delete("/assets/:id/tasks/:taskId", handlers.DeleteMaintenanceTask)
	home.Get("/maintenance/upcoming", handlers.GetUpcomingMaintenance)

	accounts := protected.Group("/connected-accounts")
	accounts.Get("/", handlers.GetConnectedAccounts)
	accounts.Post("/", handlers.SaveConnectedAccount)
	accounts.Delete("/:id", handlers.DisconnectAccount)

	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllNotificationsRead)
}
