package handlers

import (
	"time"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// syncNote mirrors a note to the owner's connected calendars over the same
// one-hour window the merged calendar projects it onto.
func syncNote(c *fiber.Ctx, note *models.Note) []services.SyncOutcome {
	projected := planner.ProjectNote(*note, planner.Owner{UserID: note.UserID}, time.Now())

	outcomes, googleID, outlookID := syncToCalendars(c.Context(), note.UserID,
		note.GoogleCalendarID, note.OutlookCalendarID,
		note.Title, projected.Start.DateTime, projected.End.DateTime)

	updates := map[string]interface{}{}
	if googleID != "" {
		note.GoogleCalendarID = &googleID
		note.SyncedToGoogle = true
		updates["google_calendar_id"] = googleID
		updates["synced_to_google"] = true
	}
	if outlookID != "" {
		note.OutlookCalendarID = &outlookID
		note.SyncedToOutlook = true
		updates["outlook_calendar_id"] = outlookID
		updates["synced_to_outlook"] = true
	}
	if len(updates) > 0 {
		database.DB.Model(note).Updates(updates)
	}
	return outcomes
}

func GetNotes(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ? AND is_active = ?", userID, true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var notes []models.Note
	if err := query.Order("created_at DESC").Find(&notes).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch notes")
	}
	return respondOK(c, "OK", fiber.Map{"notes": notes})
}

func CreateNote(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" {
		services.Audit(userID, "create_note", "note", "", false, "missing title", nil)
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title is required")
	}
	if req.Timing != nil {
		if _, err := time.Parse(time.RFC3339, *req.Timing); err != nil {
			return respondErr(c, fiber.StatusUnprocessableEntity, "timing must be RFC3339")
		}
	}

	note := models.Note{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Timing:      req.Timing,
		TaggedIDs:   req.TaggedIDs,
		IsActive:    true,
	}
	if err := database.DB.Create(&note).Error; err != nil {
		services.Audit(userID, "create_note", "note", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create note")
	}

	outcomes := syncNote(c, &note)
	notifyTagged(userID, req.TaggedIDs, "note", note.Title,
		map[string]interface{}{"noteId": note.ID.String()})

	services.Audit(userID, "create_note", "note", note.ID.String(), true, "", nil)
	return respondCreated(c, "Note created", fiber.Map{"note": note, "sync": outcomes})
}

func UpdateNote(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid note ID")
	}

	var note models.Note
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		noteID, userID, true).First(&note).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Note not found")
	}

	var req models.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Description != nil {
		note.Description = *req.Description
	}
	if req.Category != nil {
		note.Category = *req.Category
	}
	if req.Timing != nil {
		if _, err := time.Parse(time.RFC3339, *req.Timing); err != nil {
			return respondErr(c, fiber.StatusUnprocessableEntity, "timing must be RFC3339")
		}
		note.Timing = req.Timing
	}
	var newlyTagged []string
	if req.TaggedIDs != nil {
		existing := map[string]bool{}
		for _, id := range note.TaggedIDs {
			existing[id] = true
		}
		for _, id := range *req.TaggedIDs {
			if !existing[id] {
				newlyTagged = append(newlyTagged, id)
			}
		}
		note.TaggedIDs = *req.TaggedIDs
	}

	if err := database.DB.Save(&note).Error; err != nil {
		services.Audit(userID, "update_note", "note", noteID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update note")
	}

	outcomes := syncNote(c, &note)
	notifyTagged(userID, newlyTagged, "note", note.Title,
		map[string]interface{}{"noteId": note.ID.String()})

	services.Audit(userID, "update_note", "note", noteID.String(), true, "", nil)
	return respondOK(c, "Note updated", fiber.Map{"note": note, "sync": outcomes})
}

func DeleteNote(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid note ID")
	}

	result := database.DB.Model(&models.Note{}).
		Where("id = ? AND user_id = ? AND is_active = ?", noteID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Note not found or already inactive")
	}

	services.Audit(userID, "delete_note", "note", noteID.String(), true, "", nil)
	return respondOK(c, "Note deleted", nil)
}
