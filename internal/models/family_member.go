package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyMember is a directed edge: user_id's view of fm_user_id within one
// family group. Both directions of a relationship are stored as two rows
// sharing the same family_group_id.
type FamilyMember struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	FMUserID      uuid.UUID  `json:"fmUserId" gorm:"column:fm_user_id;type:uuid;index;not null"`
	FamilyGroupID string     `json:"familyGroupId" gorm:"index;not null"`
	Relationship  string     `json:"relationship"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Color         string     `json:"color"`
	InvitedBy     *uuid.UUID `json:"invitedBy" gorm:"type:uuid"`
	IsActive      bool       `json:"isActive" gorm:"default:true"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (fm *FamilyMember) BeforeCreate(tx *gorm.DB) error {
	if fm.ID == uuid.Nil {
		fm.ID = uuid.New()
	}
	return nil
}

// Family DTOs
type InviteMemberRequest struct {
	Members []InviteMemberEntry `json:"members" validate:"required"`
}

type InviteMemberEntry struct {
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Color        string `json:"color"`
}

type UpdateMemberRequest struct {
	Relationship *string `json:"relationship"`
	Color        *string `json:"color"`
	Name         *string `json:"name"`
}

// MemberInfo is the resolved view of one family member returned to clients.
type MemberInfo struct {
	UserID        uuid.UUID `json:"userId"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Relationship  string    `json:"relationship"`
	Color         string    `json:"color"`
	FamilyGroupID string    `json:"familyGroupId"`
}
