package services

import (
	"encoding/json"
	"log"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
)

// Audit appends an audit-log row. Best-effort: a failed write is logged and
// swallowed so callers never block or fail on audit problems.
func Audit(actorID uuid.UUID, action, resourceType, resourceID string, success bool, errMsg string, metadata map[string]interface{}) {
	entry := models.AuditLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Success:      success,
		ErrorMessage: errMsg,
	}

	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			entry.Metadata = data
		}
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("audit: failed to write %s/%s: %v", action, resourceType, err)
	}
}
