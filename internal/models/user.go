package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleGuest      = "guest"
	RolePaidMember = "paid_member"
)

type User struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email            string     `json:"email" gorm:"uniqueIndex;not null"`
	Password         string     `json:"-"`
	AuthProvider     string     `json:"authProvider" gorm:"default:email"`
	UserName         string     `json:"userName" gorm:"uniqueIndex"`
	Name             string     `json:"name"`
	AvatarURL        string     `json:"avatarUrl"`
	Role             string     `json:"role" gorm:"not null;default:'guest'"` // guest, paid_member
	StripeCustomerID string     `json:"-"`
	FCMToken         string     `json:"-" gorm:"column:fcm_token"`
	IsActive         bool       `json:"isActive" gorm:"default:true"`
	LastActiveDate   *time.Time `json:"lastActiveDate"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Auth DTOs
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	UserName string `json:"userName"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type UpdateUserNameRequest struct {
	UserName string `json:"userName" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
