package handlers

import (
	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

func GetBookmarks(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ? AND is_active = ?", userID, true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.QueryBool("favorites", false) {
		query = query.Where("is_favorite = ?", true)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Where(datatypes.JSONArrayQuery("tags").Contains(tag))
	}

	var bookmarks []models.Bookmark
	if err := query.Order("created_at DESC").Find(&bookmarks).Error; err != nil {
		return respondErr(c, fiber.StatusInternalServerError, "Failed to fetch bookmarks")
	}
	return respondOK(c, "OK", fiber.Map{"bookmarks": bookmarks})
}

func CreateBookmark(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateBookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.URL == "" {
		services.Audit(userID, "create_bookmark", "bookmark", "", false, "missing title or url",
			map[string]interface{}{"title": req.Title, "url": req.URL})
		return respondErr(c, fiber.StatusUnprocessableEntity, "Title and URL are required")
	}

	bookmark := models.Bookmark{
		UserID:      userID,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Category:    req.Category,
		Favicon:     req.Favicon,
		Tags:        req.Tags,
		IsActive:    true,
	}
	if err := database.DB.Create(&bookmark).Error; err != nil {
		services.Audit(userID, "create_bookmark", "bookmark", "", false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to create bookmark")
	}

	services.Audit(userID, "create_bookmark", "bookmark", bookmark.ID.String(), true, "", nil)
	return respondCreated(c, "Bookmark created", fiber.Map{"bookmark": bookmark})
}

func UpdateBookmark(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	bookmarkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid bookmark ID")
	}

	var bookmark models.Bookmark
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		bookmarkID, userID, true).First(&bookmark).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Bookmark not found")
	}

	var req models.UpdateBookmarkRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Title != nil {
		bookmark.Title = *req.Title
	}
	if req.URL != nil {
		bookmark.URL = *req.URL
	}
	if req.Description != nil {
		bookmark.Description = *req.Description
	}
	if req.Category != nil {
		bookmark.Category = *req.Category
	}
	if req.Favicon != nil {
		bookmark.Favicon = *req.Favicon
	}
	if req.Tags != nil {
		bookmark.Tags = *req.Tags
	}

	if err := database.DB.Save(&bookmark).Error; err != nil {
		services.Audit(userID, "update_bookmark", "bookmark", bookmarkID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update bookmark")
	}

	services.Audit(userID, "update_bookmark", "bookmark", bookmarkID.String(), true, "", nil)
	return respondOK(c, "Bookmark updated", fiber.Map{"bookmark": bookmark})
}

func ToggleFavorite(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	bookmarkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid bookmark ID")
	}

	var bookmark models.Bookmark
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		bookmarkID, userID, true).First(&bookmark).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Bookmark not found")
	}

	bookmark.IsFavorite = !bookmark.IsFavorite
	database.DB.Model(&bookmark).Update("is_favorite", bookmark.IsFavorite)

	return respondOK(c, "Favorite toggled", fiber.Map{"isFavorite": bookmark.IsFavorite})
}

func DeleteBookmark(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	bookmarkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid bookmark ID")
	}

	result := database.DB.Model(&models.Bookmark{}).
		Where("id = ? AND user_id = ? AND is_active = ?", bookmarkID, userID, true).
		Update("is_active", false)
	if result.RowsAffected == 0 {
		return respondErr(c, fiber.StatusNotFound, "Bookmark not found or already inactive")
	}

	services.Audit(userID, "delete_bookmark", "bookmark", bookmarkID.String(), true, "", nil)
	return respondOK(c, "Bookmark deleted", nil)
}

// ShareBookmark sends the bookmark to a list of email addresses: registered
// recipients get a notification, everyone gets mail. Sending is the whole
// point of this endpoint, so all-recipients-failed is an endpoint failure;
// partial failures are reported alongside the successes.
func ShareBookmark(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	bookmarkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid bookmark ID")
	}

	var bookmark models.Bookmark
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		bookmarkID, userID, true).First(&bookmark).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Bookmark not found")
	}

	var req models.ShareBookmarkRequest
	if err := c.BodyParser(&req); err != nil || len(req.Emails) == 0 {
		return respondErr(c, fiber.StatusBadRequest, "At least one email is required")
	}

	var sender models.User
	database.DB.First(&sender, "id = ?", userID)
	senderName := sender.Name
	if senderName == "" {
		senderName = sender.Email
	}

	var shared []string
	var failures []fiber.Map
	for _, email := range req.Emails {
		if err := services.Mail.SendBookmarkShare(email, senderName, bookmark.Title, bookmark.URL); err != nil {
			failures = append(failures, fiber.Map{"email": email, "error": err.Error()})
			continue
		}
		var recipient models.User
		if err := database.DB.Where("email = ? AND is_active = ?", email, true).First(&recipient).Error; err == nil {
			CreateNotification(recipient.ID, "item_shared",
				senderName+" shared a bookmark with you", bookmark.Title,
				map[string]interface{}{"bookmarkId": bookmark.ID.String()})
		}
		shared = append(shared, email)
	}

	success := len(shared) > 0
	services.Audit(userID, "share_bookmark", "bookmark", bookmarkID.String(), success, "",
		map[string]interface{}{"shared": len(shared), "failed": len(failures)})

	if !success {
		return respondPartial(c, "Failed to share bookmark", fiber.Map{"errors": failures}, "all recipients failed")
	}
	return respondOK(c, "Bookmark shared", fiber.Map{"shared": shared, "errors": failures})
}
