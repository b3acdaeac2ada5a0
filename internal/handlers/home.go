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

func GetHomeAssets(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var assets []models.HomeAsset
	if err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).
		Preload("MaintenanceTasks", "is_active = ?", true).
		Order("created_at DESC").
		Find(&assets).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch home assets")
	}

	return respondOK(c, "OK", fiber.Map{"assets": assets})
}

func CreateHomeAsset(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateHomeAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return respondErr(c, fiber.StatusUnprocessableEntity, "Name is required")
	}

	asset := models.HomeAsset{
		UserID:        userID,
		Name:          req.Name,
		Category:      req.Category,
		PurchaseDate:  req.PurchaseDate,
		WarrantyUntil: req.WarrantyUntil,
		Notes:         req.Notes,
		IsActive:      true,
	}
	if err := database.DB.Create(&asset).Error; err != nil {
		services.Audit(userID, "create_home_asset", "home_asset", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create home asset")
	}

	services.Audit(userID, "create_home_asset", "home_asset", asset.ID.String(), true, "", nil)
	return respondCreated(c, "Home asset created", fiber.Map{"asset": asset})
}

func UpdateHomeAsset(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid asset ID")
	}

	var asset models.HomeAsset
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		assetID, userID, true).First(&asset).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Home asset not found")
	}

	var req models.UpdateHomeAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name != nil {
		asset.Name = *req.Name
	}
	if req.Category != nil {
		asset.Category = *req.Category
	}
	if req.PurchaseDate != nil {
		asset.PurchaseDate = req.PurchaseDate
	}
	if req.WarrantyUntil != nil {
		asset.WarrantyUntil = req.WarrantyUntil
	}
	if req.Notes != nil {
		asset.Notes = *req.Notes
	}

	if err := database.DB.Save(&asset).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update home asset")
	}

	services.Audit(userID, "update_home_asset", "home_asset", assetID.String(), true, "", nil)
	return respondOK(c, "Home asset updated", fiber.Map{"asset": asset})
}

func DeleteHomeAsset(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid asset ID")
	}

	result := database.DB.Model(&models.HomeAsset{}).
		Where("id = ? AND user_id = ? AND is_active = ?", assetID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Home asset not found or already inactive")
	}

	database.DB.Model(&models.MaintenanceTask{}).
		Where("asset_id = ? AND is_active = ?", assetID, true).
		Update("is_active", false)

	services.Audit(userID, "delete_home_asset", "home_asset", assetID.String(), true, "", nil)
	return respondOK(c, "Home asset deleted", nil)
}

func CreateMaintenanceTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	assetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid asset ID")
	}

	var asset models.HomeAsset
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		assetID, userID, true).First(&asset).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Home asset not found")
	}

	var req models.CreateMaintenanceTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" {
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title is required")
	}

	task := models.MaintenanceTask{
		AssetID:  assetID,
		UserID:   userID,
		Title:    req.Title,
		DueDate:  req.DueDate,
		IsActive: true,
	}
	if err := database.DB.Create(&task).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create maintenance task")
	}

	services.Audit(userID, "create_maintenance_task", "maintenance_task", task.ID.String(), true, "", nil)
	return respondCreated(c, "Maintenance task created", fiber.Map{"task": task})
}

func UpdateMaintenanceTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	var task models.MaintenanceTask
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		taskID, userID, true).First(&task).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Maintenance task not found")
	}

	var req models.UpdateMaintenanceTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := database.DB.Save(&task).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update maintenance task")
	}

	services.Audit(userID, "update_maintenance_task", "maintenance_task", taskID.String(), true, "", nil)
	return respondOK(c, "Maintenance task updated", fiber.Map{"task": task})
}

func DeleteMaintenanceTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("taskId"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid task ID")
	}

	result := database.DB.Model(&models.MaintenanceTask{}).
		Where("id = ? AND user_id = ? AND is_active = ?", taskID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Maintenance task not found or already inactive")
	}

	services.Audit(userID, "delete_maintenance_task", "maintenance_task", taskID.String(), true, "", nil)
	return respondOK(c, "Maintenance task deleted", nil)
}

// GetUpcomingMaintenance lists incomplete maintenance tasks due within the
// next N days (default 30), soonest first.
func GetUpcomingMaintenance(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	days := c.QueryInt("days", 30)
	if days < 1 {
		days = 30
	}

	today := time.Now().Format("2006-01-02")
	horizon := time.Now().AddDate(0, 0, days).Format("2006-01-02")

	var tasks []models.MaintenanceTask
	if err := database.DB.Where(
		"user_id = ? AND is_active = ? AND completed = ? AND due_date IS NOT NULL AND due_date >= ? AND due_date <= ?",
		userID, true, false, today, horizon).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch upcoming maintenance")
	}

	return respondOK(c, "OK", fiber.Map{"tasks": tasks, "days": days})
}
