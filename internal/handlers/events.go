package handlers

import (
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// syncEvent mirrors a manual event to the owner's connected calendars using
// the same projection the merged calendar renders.
func syncEvent(c *fiber.Ctx, event *models.PlannerEvent) []services.SyncOutcome {
	projected := planner.ProjectEvent(*event, planner.Owner{UserID: event.UserID})

	outcomes, googleID, outlookID := syncToCalendars(c.Context(), event.UserID,
		event.GoogleCalendarID, event.OutlookCalendarID,
		event.Title, projected.Start.DateTime, projected.End.DateTime)

	updates := map[string]interface{}{}
	if googleID != "" {
		event.GoogleCalendarID = &googleID
		event.SyncedToGoogle = true
		updates["google_calendar_id"] = googleID
		updates["synced_to_google"] = true
	}
	if outlookID != "" {
		event.OutlookCalendarID = &outlookID
		event.SyncedToOutlook = true
		updates["outlook_calendar_id"] = outlookID
		updates["synced_to_outlook"] = true
	}
	if len(updates) > 0 {
		database.DB.Model(event).Updates(updates)
	}
	return outcomes
}

func GetEvents(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var events []models.PlannerEvent
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("date ASC").Find(&events).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch events")
	}
	return respondOK(c, "OK", fiber.Map{"events": events})
}

func CreateEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreatePlannerEventRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.Date == "" || req.StartTime == "" || req.EndTime == "" {
		services.Audit(userID, "create_event", "event", "", false, "missing required fields",
			map[string]interface{}{"title": req.Title, "date": req.Date})
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title, date, startTime and endTime are required")
	}

	event := models.PlannerEvent{
		UserID:    userID,
		Title:     req.Title,
		Location:  req.Location,
		Date:      req.Date,
		EndDate:   req.EndDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		TaggedIDs: req.TaggedIDs,
		IsActive:  true,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		services.Audit(userID, "create_event", "event", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create event")
	}

	outcomes := syncEvent(c, &event)
	notifyTagged(userID, req.TaggedIDs, "event", event.Title,
		map[string]interface{}{"eventId": event.ID.String()})

	services.Audit(userID, "create_event", "event", event.ID.String(), true, "", nil)
	return respondCreated(c, "Event created", fiber.Map{"event": event, "sync": outcomes})
}

func UpdateEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var event models.PlannerEvent
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		eventID, userID, true).First(&event).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Event not found")
	}

	var req models.UpdatePlannerEventRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.EndDate != nil {
		event.EndDate = *req.EndDate
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	var newlyTagged []string
	if req.TaggedIDs != nil {
		existing := map[string]bool{}
		for _, id := range event.TaggedIDs {
			existing[id] = true
		}
		for _, id := range *req.TaggedIDs {
			if !existing[id] {
				newlyTagged = append(newlyTagged, id)
			}
		}
		event.TaggedIDs = *req.TaggedIDs
	}

	if err := database.DB.Save(&event).Error; err != nil {
		services.Audit(userID, "update_event", "event", eventID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update event")
	}

	outcomes := syncEvent(c, &event)
	notifyTagged(userID, newlyTagged, "event", event.Title,
		map[string]interface{}{"eventId": event.ID.String()})

	services.Audit(userID, "update_event", "event", eventID.String(), true, "", nil)
	return respondOK(c, "Event updated", fiber.Map{"event": event, "sync": outcomes})
}

func DeleteEvent(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid event ID")
	}

	var event models.PlannerEvent
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		eventID, userID, true).First(&event).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Event not found or already inactive")
	}

	database.DB.Model(&event).Update("is_active", false)

	// Best-effort removal of the Google mirror. The local delete stands
	// regardless of the outcome.
	if event.GoogleCalendarID != nil && *event.GoogleCalendarID != "" {
		var accounts []models.ConnectedAccount
		database.DB.Where("user_id = ? AND provider = ? AND is_active = ?",
			userID, models.ProviderGoogle, true).Find(&accounts)
		for i := range accounts {
			services.DeleteGoogleEvent(c.Context(), &accounts[i], *event.GoogleCalendarID)
		}
	}

	services.Audit(userID, "delete_event", "event", eventID.String(), true, "", nil)
	return respondOK(c, "Event deleted", nil)
}
