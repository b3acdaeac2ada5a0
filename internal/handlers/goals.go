package handlers

import (
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Calendar mirror fan-out, swappable in tests.
var syncToCalendars = services.SyncToCalendars

// syncGoal mirrors a goal to the owner's connected calendars as a full-day
// event. Best-effort: outcomes are returned for the payload, never errors.
func syncGoal(c *fiber.Ctx, goal *models.Goal) []services.SyncOutcome {
	outcomes, googleID, outlookID := syncToCalendars(c.Context(), goal.UserID,
		goal.GoogleCalendarID, goal.OutlookCalendarID,
		goal.Title, goal.Date+"T00:00:00Z", goal.Date+"T23:59:59Z")

	updates := map[string]interface{}{}
	if googleID != "" {
		goal.GoogleCalendarID = &googleID
		goal.SyncedToGoogle = true
		updates["google_calendar_id"] = googleID
		updates["synced_to_google"] = true
	}
	if outlookID != "" {
		goal.OutlookCalendarID = &outlookID
		goal.SyncedToOutlook = true
		updates["outlook_calendar_id"] = outlookID
		updates["synced_to_outlook"] = true
	}
	if len(updates) > 0 {
		database.DB.Model(goal).Updates(updates)
	}
	return outcomes
}

func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var goals []models.Goal
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("date ASC").Find(&goals).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch goals")
	}
	return respondOK(c, "OK", fiber.Map{"goals": goals})
}

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.Date == "" {
		services.Audit(userID, "create_goal", "goal", "", false, "missing title or date",
			map[string]interface{}{"title": req.Title, "date": req.Date})
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title and date are required")
	}

	goal := models.Goal{
		UserID:    userID,
		Title:     req.Title,
		Date:      req.Date,
		Time:      req.Time,
		TaggedIDs: req.TaggedIDs,
		IsActive:  true,
	}
	if err := database.DB.Create(&goal).Error; err != nil {
		services.Audit(userID, "create_goal", "goal", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create goal")
	}

	outcomes := syncGoal(c, &goal)
	notifyTagged(userID, req.TaggedIDs, "goal", goal.Title,
		map[string]interface{}{"goalId": goal.ID.String()})

	services.Audit(userID, "create_goal", "goal", goal.ID.String(), true, "", nil)
	return respondCreated(c, "Goal created", fiber.Map{"goal": goal, "sync": outcomes})
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid goal ID")
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		goalID, userID, true).First(&goal).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Goal not found")
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Date != nil {
		goal.Date = *req.Date
	}
	if req.Time != nil {
		goal.Time = req.Time
	}
	if req.Completed != nil {
		goal.Completed = *req.Completed
	}
	var newlyTagged []string
	if req.TaggedIDs != nil {
		existing := map[string]bool{}
		for _, id := range goal.TaggedIDs {
			existing[id] = true
		}
		for _, id := range *req.TaggedIDs {
			if !existing[id] {
				newlyTagged = append(newlyTagged, id)
			}
		}
		goal.TaggedIDs = *req.TaggedIDs
	}

	if err := database.DB.Save(&goal).Error; err != nil {
		services.Audit(userID, "update_goal", "goal", goalID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update goal")
	}

	outcomes := syncGoal(c, &goal)
	notifyTagged(userID, newlyTagged, "goal", goal.Title,
		map[string]interface{}{"goalId": goal.ID.String()})

	services.Audit(userID, "update_goal", "goal", goalID.String(), true, "", nil)
	return respondOK(c, "Goal updated", fiber.Map{"goal": goal, "sync": outcomes})
}

func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid goal ID")
	}

	result := database.DB.Model(&models.Goal{}).
		Where("id = ? AND user_id = ? AND is_active = ?", goalID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Goal not found or already inactive")
	}

	services.Audit(userID, "delete_goal", "goal", goalID.String(), true, "", nil)
	return respondOK(c, "Goal deleted", nil)
}
