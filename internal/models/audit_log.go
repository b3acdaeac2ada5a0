package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of who did what. Writes are best-effort;
// a failed audit insert never fails the request that produced it.
type AuditLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ActorID      uuid.UUID      `json:"actorId" gorm:"type:uuid;index"`
	Action       string         `json:"action" gorm:"not null"`
	ResourceType string         `json:"resourceType" gorm:"index"`
	ResourceID   string         `json:"resourceId"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"errorMessage"`
	Metadata     datatypes.JSON `json:"metadata"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
