package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Goal struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Date      string    `json:"date" gorm:"not null"` // YYYY-MM-DD
	Time      *string   `json:"time"`                 // optional HH:MM
	Completed bool      `json:"completed" gorm:"default:false"`

	TaggedIDs datatypes.JSONSlice[string] `json:"taggedIds"`

	GoogleCalendarID  *string `json:"googleCalendarId"`
	OutlookCalendarID *string `json:"outlookCalendarId"`
	SyncedToGoogle    bool    `json:"syncedToGoogle" gorm:"default:false"`
	SyncedToOutlook   bool    `json:"syncedToOutlook" gorm:"default:false"`

	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Goal DTOs
type CreateGoalRequest struct {
	Title     string   `json:"title" validate:"required"`
	Date      string   `json:"date" validate:"required"`
	Time      *string  `json:"time"`
	TaggedIDs []string `json:"taggedIds"`
}

type UpdateGoalRequest struct {
	Title     *string   `json:"title"`
	Date      *string   `json:"date"`
	Time      *string   `json:"time"`
	Completed *bool     `json:"completed"`
	TaggedIDs *[]string `json:"taggedIds"`
}
