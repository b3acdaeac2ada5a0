package handlers

import (
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func syncTodo(c *fiber.Ctx, todo *models.Todo) []services.SyncOutcome {
	outcomes, googleID, outlookID := syncToCalendars(c.Context(), todo.UserID,
		todo.GoogleCalendarID, todo.OutlookCalendarID,
		todo.Title, todo.Date+"T00:00:00Z", todo.Date+"T23:59:59Z")

	updates := map[string]interface{}{}
	if googleID != "" {
		todo.GoogleCalendarID = &googleID
		todo.SyncedToGoogle = true
		updates["google_calendar_id"] = googleID
		updates["synced_to_google"] = true
	}
	if outlookID != "" {
		todo.OutlookCalendarID = &outlookID
		todo.SyncedToOutlook = true
		updates["outlook_calendar_id"] = outlookID
		updates["synced_to_outlook"] = true
	}
	if len(updates) > 0 {
		database.DB.Model(todo).Updates(updates)
	}
	return outcomes
}

func GetTodos(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var todos []models.Todo
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("date ASC").Find(&todos).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch todos")
	}
	return respondOK(c, "OK", fiber.Map{"todos": todos})
}

func CreateTodo(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.Date == "" {
		services.Audit(userID, "create_todo", "todo", "", false, "missing title or date",
			map[string]interface{}{"title": req.Title, "date": req.Date})
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title and date are required")
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	todo := models.Todo{
		UserID:    userID,
		Title:     req.Title,
		Date:      req.Date,
		Time:      req.Time,
		Priority:  priority,
		TaggedIDs: req.TaggedIDs,
		IsActive:  true,
	}
	if err := database.DB.Create(&todo).Error; err != nil {
		services.Audit(userID, "create_todo", "todo", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create todo")
	}

	outcomes := syncTodo(c, &todo)
	notifyTagged(userID, req.TaggedIDs, "todo", todo.Title,
		map[string]interface{}{"todoId": todo.ID.String()})

	services.Audit(userID, "create_todo", "todo", todo.ID.String(), true, "", nil)
	return respondCreated(c, "Todo created", fiber.Map{"todo": todo, "sync": outcomes})
}

func UpdateTodo(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid todo ID")
	}

	var todo models.Todo
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		todoID, userID, true).First(&todo).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Todo not found")
	}

	var req models.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		todo.Title = *req.Title
	}
	if req.Date != nil {
		todo.Date = *req.Date
	}
	if req.Time != nil {
		todo.Time = req.Time
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	var newlyTagged []string
	if req.TaggedIDs != nil {
		existing := map[string]bool{}
		for _, id := range todo.TaggedIDs {
			existing[id] = true
		}
		for _, id := range *req.TaggedIDs {
			if !existing[id] {
				newlyTagged = append(newlyTagged, id)
			}
		}
		todo.TaggedIDs = *req.TaggedIDs
	}

	if err := database.DB.Save(&todo).Error; err != nil {
		services.Audit(userID, "update_todo", "todo", todoID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update todo")
	}

	outcomes := syncTodo(c, &todo)
	notifyTagged(userID, newlyTagged, "todo", todo.Title,
		map[string]interface{}{"todoId": todo.ID.String()})

	services.Audit(userID, "update_todo", "todo", todoID.String(), true, "", nil)
	return respondOK(c, "Todo updated", fiber.Map{"todo": todo, "sync": outcomes})
}

func DeleteTodo(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid todo ID")
	}

	result := database.DB.Model(&models.Todo{}).
		Where("id = ? AND user_id = ? AND is_active = ?", todoID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Todo not found or already inactive")
	}

	services.Audit(userID, "delete_todo", "todo", todoID.String(), true, "", nil)
	return respondOK(c, "Todo deleted", nil)
}
