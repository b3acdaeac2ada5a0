package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HealthRecord struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Type       string    `json:"type" gorm:"not null"` // steps, weight, heart_rate, sleep, blood_pressure
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Source     string    `json:"source" gorm:"default:'manual'"` // manual, fitbit
	RecordedAt time.Time `json:"recordedAt"`
	IsActive   bool      `json:"isActive" gorm:"default:true"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (h *HealthRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

type Medication struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"` // daily, twice_daily, weekly, as_needed
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *Medication) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Health DTOs
type CreateHealthRecordRequest struct {
	Type       string  `json:"type" validate:"required"`
	Value      float64 `json:"value" validate:"required"`
	Unit       string  `json:"unit"`
	RecordedAt *string `json:"recordedAt"` // RFC3339, defaults to now
}

type CreateMedicationRequest struct {
	Name      string `json:"name" validate:"required"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Notes     string `json:"notes"`
}

type UpdateMedicationRequest struct {
	Name      *string `json:"name"`
	Dosage    *string `json:"dosage"`
	Frequency *string `json:"frequency"`
	Notes     *string `json:"notes"`
}
