package handlers

import (
	"time"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetHealthRecords(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ? AND is_active = ?", userID, true)
	if recordType := c.Query("type"); recordType != "" {
		query = query.Where("type = ?", recordType)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("recorded_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			query = query.Where("recorded_at <= ?", t)
		}
	}

	var records []models.HealthRecord
	if err := query.Order("recorded_at DESC").Find(&records).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch health records")
	}

	return respondOK(c, "OK", fiber.Map{"records": records})
}

func CreateHealthRecord(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateHealthRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Type == "" {
		return respondErr(c, fiber.StatusUnprocessableEntity, "Type is required")
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		t, err := time.Parse(time.RFC3339, *req.RecordedAt)
		if err != nil {
			return respondErr(c, fiber.StatusUnprocessableEntity, "recordedAt must be RFC3339")
		}
		recordedAt = t
	}

	record := models.HealthRecord{
		UserID:     userID,
		Type:       req.Type,
		Value:      req.Value,
		Unit:       req.Unit,
		Source:     "manual",
		RecordedAt: recordedAt,
		IsActive:   true,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		services.Audit(userID, "create_health_record", "health_record", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create health record")
	}

	services.Audit(userID, "create_health_record", "health_record", record.ID.String(), true, "", nil)
	return respondCreated(c, "Health record created", fiber.Map{"record": record})
}

func DeleteHealthRecord(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid record ID")
	}

	result := database.DB.Model(&models.HealthRecord{}).
		Where("id = ? AND user_id = ? AND is_active = ?", recordID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Health record not found or already inactive")
	}

	services.Audit(userID, "delete_health_record", "health_record", recordID.String(), true, "", nil)
	return respondOK(c, "Health record deleted", nil)
}

// SyncFitbit pulls today's activity summary from Fitbit and records it.
// Unlike the planner aggregation, a provider failure here fails the request:
// the client asked for this one provider specifically.
func SyncFitbit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var account models.ConnectedAccount
	if err := database.DB.Where("user_id = ? AND provider = ? AND is_active = ?",
		userID, models.ProviderFitbit, true).First(&account).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "No active Fitbit account connected")
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return respondErr(c, fiber.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
	}

	summary, err := services.FetchFitbitDailySummary(c.Context(), &account, date)
	if err != nil {
		services.Audit(userID, "sync_fitbit", "health_record", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusBadGateway, "Failed to fetch Fitbit data")
	}

	recordedAt, _ := time.Parse("2006-01-02", date)
	metrics := []struct {
		kind  string
		value float64
		unit  string
	}{
		{"steps", summary.Steps, "count"},
		{"calories", summary.CaloriesOut, "kcal"},
		{"heart_rate", summary.RestingHeart, "bpm"},
		{"active_minutes", summary.ActiveMinutes, "min"},
	}

	var records []models.HealthRecord
	for _, m := range metrics {
		if m.value == 0 {
			continue
		}
		record := models.HealthRecord{
			UserID:     userID,
			Type:       m.kind,
			Value:      m.value,
			Unit:       m.unit,
			Source:     "fitbit",
			RecordedAt: recordedAt,
			IsActive:   true,
		}
		// One row per metric per day per source; re-syncing replaces.
		database.DB.Where("user_id = ? AND type = ? AND source = ? AND recorded_at = ?",
			userID, m.kind, "fitbit", recordedAt).Delete(&models.HealthRecord{})
		if err := database.DB.Create(&record).Error; err != nil {
			continue
		}
		records = append(records, record)
	}

	services.Audit(userID, "sync_fitbit", "health_record", "", true, "", map[string]interface{}{"date": date})
	return respondOK(c, "Fitbit data synced", fiber.Map{"records": records, "date": date})
}

func GetMedications(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var medications []models.Medication
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").Find(&medications).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch medications")
	}

	return respondOK(c, "OK", fiber.Map{"medications": medications})
}

func CreateMedication(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateMedicationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return respondErr(c, fiber.StatusUnprocessableEntity, "Name is required")
	}

	medication := models.Medication{
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Notes:     req.Notes,
		IsActive:  true,
	}
	if err := database.DB.Create(&medication).Error; err != nil {
		services.Audit(userID, "create_medication", "medication", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create medication")
	}

	services.Audit(userID, "create_medication", "medication", medication.ID.String(), true, "", nil)
	return respondCreated(c, "Medication created", fiber.Map{"medication": medication})
}

func UpdateMedication(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	medicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid medication ID")
	}

	var medication models.Medication
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		medicationID, userID, true).First(&medication).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Medication not found")
	}

	var req models.UpdateMedicationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		medication.Name = *req.Name
	}
	if req.Dosage != nil {
		medication.Dosage = *req.Dosage
	}
	if req.Frequency != nil {
		medication.Frequency = *req.Frequency
	}
	if req.Notes != nil {
		medication.Notes = *req.Notes
	}

	if err := database.DB.Save(&medication).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update medication")
	}

	services.Audit(userID, "update_medication", "medication", medicationID.String(), true, "", nil)
	return respondOK(c, "Medication updated", fiber.Map{"medication": medication})
}

func DeleteMedication(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	medicationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid medication ID")
	}

	result := database.DB.Model(&models.Medication{}).
		Where("id = ? AND user_id = ? AND is_active = ?", medicationID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Medication not found or already inactive")
	}

	services.Audit(userID, "delete_medication", "medication", medicationID.String(), true, "", nil)
	return respondOK(c, "Medication deleted", nil)
}
