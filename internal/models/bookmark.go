package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Bookmark struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	URL         string    `json:"url" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Favicon     string    `json:"favicon"`
	IsFavorite  bool      `json:"isFavorite" gorm:"default:false"`

	Tags datatypes.JSONSlice[string] `json:"tags"`

	IsActive  bool      `json:"isActive" gorm:"default:true"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Bookmark DTOs
type CreateBookmarkRequest struct {
	Title       string   `json:"title" validate:"required"`
	URL         string   `json:"url" validate:"required,url"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Favicon     string   `json:"favicon"`
	Tags        []string `json:"tags"`
}

type UpdateBookmarkRequest struct {
	Title       *string   `json:"title"`
	URL         *string   `json:"url"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Favicon     *string   `json:"favicon"`
	Tags        *[]string `json:"tags"`
}

type ShareBookmarkRequest struct {
	Emails []string `json:"emails" validate:"required"`
}
