package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Every endpoint answers with the same envelope; clients branch on status.
func respondOK(c *fiber.Ctx, message string, payload interface{}) error {
	if payload == nil {
		payload = fiber.Map{}
	}
	return c.JSON(fiber.Map{"status": 1, "message": message, "payload": payload})
}

func respondCreated(c *fiber.Ctx, message string, payload interface{}) error {
	if payload == nil {
		payload = fiber.Map{}
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": 1, "message": message, "payload": payload})
}

func respondErr(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{"status": 0, "message": message, "payload": fiber.Map{}})
}

// respondPartial is the aggregation failure shape: status 0 plus whatever
// payload had been assembled before the failure.
func respondPartial(c *fiber.Ctx, message string, payload interface{}, errMsg string) error {
	if payload == nil {
		payload = fiber.Map{}
	}
	return c.JSON(fiber.Map{"status": 0, "message": message, "payload": payload, "error": errMsg})
}

// CreateNotification persists a notification row and fans out a push.
func CreateNotification(userID uuid.UUID, notifType, title, body string, metadata map[string]interface{}) {
	notif := models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
	}

	var pushData map[string]string
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			s := string(data)
			notif.Metadata = &s
		}
		pushData = make(map[string]string)
		for k, v := range metadata {
			pushData[k] = fmt.Sprintf("%v", v)
		}
		pushData["type"] = notifType
	}

	database.DB.Create(&notif)

	if services.Push != nil {
		go services.Push.SendToUser(userID, title, body, pushData)
	}
}

// notifyTagged tells each newly tagged user about the item they were
// granted visibility into.
func notifyTagged(actorID uuid.UUID, taggedIDs []string, resourceType, title string, metadata map[string]interface{}) {
	var actor models.User
	database.DB.First(&actor, "id = ?", actorID)
	name := actor.Name
	if name == "" {
		name = actor.Email
	}

	for _, raw := range taggedIDs {
		id, err := uuid.Parse(raw)
		if err != nil || id == actorID {
			continue
		}
		CreateNotification(id, "item_tagged",
			name+" shared a "+resourceType+" with you", title, metadata)
	}
}
