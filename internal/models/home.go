package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HomeAsset struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Category      string    `json:"category"` // appliance, hvac, plumbing, vehicle, other
	PurchaseDate  *string   `json:"purchaseDate"`
	WarrantyUntil *string   `json:"warrantyUntil"`
	Notes         string    `json:"notes"`
	IsActive      bool      `json:"isActive" gorm:"default:true"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	MaintenanceTasks []MaintenanceTask `json:"maintenanceTasks,omitempty" gorm:"foreignKey:AssetID"`
}

func (a *HomeAsset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type MaintenanceTask struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AssetID   uuid.UUID `json:"assetId" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"not null"`
	DueDate   *string   `json:"dueDate"` // YYYY-MM-DD
	Completed bool      `json:"completed" gorm:"default:false"`
	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *MaintenanceTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Home DTOs
type CreateHomeAssetRequest struct {
	Name          string  `json:"name" validate:"required"`
	Category      string  `json:"category"`
	PurchaseDate  *string `json:"purchaseDate"`
	WarrantyUntil *string `json:"warrantyUntil"`
	Notes         string  `json:"notes"`
}

type UpdateHomeAssetRequest struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	PurchaseDate  *string `json:"purchaseDate"`
	WarrantyUntil *string `json:"warrantyUntil"`
	Notes         *string `json:"notes"`
}

type CreateMaintenanceTaskRequest struct {
	Title   string  `json:"title" validate:"required"`
	DueDate *string `json:"dueDate"`
}

type UpdateMaintenanceTaskRequest struct {
	Title     *string `json:"title"`
	DueDate   *string `json:"dueDate"`
	Completed *bool   `json:"completed"`
}
