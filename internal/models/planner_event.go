package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlannerEvent is a manually created calendar event. Start/end are stored as
// a date plus a 12-hour clock time-of-day, matching what the client sends.
// The pair start_time "12:00 AM" / end_time "11:59 PM" is the all-day sentinel.
type PlannerEvent struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Location  string    `json:"location"`
	Date      string    `json:"date" gorm:"not null"` // YYYY-MM-DD
	EndDate   string    `json:"endDate"`
	StartTime string    `json:"startTime" gorm:"not null"` // e.g. "9:30 AM"
	EndTime   string    `json:"endTime" gorm:"not null"`

	TaggedIDs datatypes.JSONSlice[string] `json:"taggedIds"`

	GoogleCalendarID  *string `json:"googleCalendarId"`
	OutlookCalendarID *string `json:"outlookCalendarId"`
	SyncedToGoogle    bool    `json:"syncedToGoogle" gorm:"default:false"`
	SyncedToOutlook   bool    `json:"syncedToOutlook" gorm:"default:false"`

	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *PlannerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// PlannerEvent DTOs
type CreatePlannerEventRequest struct {
	Title     string   `json:"title" validate:"required"`
	Location  string   `json:"location"`
	Date      string   `json:"date" validate:"required"`
	EndDate   string   `json:"endDate"`
	StartTime string   `json:"startTime" validate:"required"`
	EndTime   string   `json:"endTime" validate:"required"`
	TaggedIDs []string `json:"taggedIds"`
}

type UpdatePlannerEventRequest struct {
	Title     *string   `json:"title"`
	Location  *string   `json:"location"`
	Date      *string   `json:"date"`
	EndDate   *string   `json:"endDate"`
	StartTime *string   `json:"startTime"`
	EndTime   *string   `json:"endTime"`
	TaggedIDs *[]string `json:"taggedIds"`
}
