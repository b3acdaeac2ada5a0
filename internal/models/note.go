package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category"`
	Timing      *string   `json:"timing"` // RFC3339 anchor for the planner projection

	TaggedIDs datatypes.JSONSlice[string] `json:"taggedIds"`

	GoogleCalendarID  *string `json:"googleCalendarId"`
	OutlookCalendarID *string `json:"outlookCalendarId"`
	SyncedToGoogle    bool    `json:"syncedToGoogle" gorm:"default:false"`
	SyncedToOutlook   bool    `json:"syncedToOutlook" gorm:"default:false"`

	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Note DTOs
type CreateNoteRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Timing      *string  `json:"timing"`
	TaggedIDs   []string `json:"taggedIds"`
}

type UpdateNoteRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Timing      *string   `json:"timing"`
	TaggedIDs   *[]string `json:"taggedIds"`
}
