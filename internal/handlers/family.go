package handlers

import (
	"log"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Invite mail delivery, swappable in tests.
var sendFamilyInvite = func(email, inviterName string) error {
	return services.Mail.SendFamilyInvite(email, inviterName)
}

// familyGroupFor returns the group id the user already belongs to, creating
// one when this is their first invite.
func familyGroupFor(userID uuid.UUID) string {
	var existing models.FamilyMember
	if err := database.DB.Where("fm_user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").First(&existing).Error; err == nil {
		return existing.FamilyGroupID
	}
	return uuid.NewString()
}

// InviteMembers adds one or more people to the requester's family. Each
// accepted invite writes both directed member rows under one shared group
// id, emails the invitee, and notifies registered invitees. Unregistered
// addresses whose invite mail was delivered are reported as pending.
// Per-recipient failures are aggregated; the endpoint only fails when no
// invite got through at all.
func InviteMembers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.InviteMemberRequest
	if err := c.BodyParser(&req); err != nil || len(req.Members) == 0 {
		return respondErr(c, fiber.StatusBadRequest, "At least one member is required")
	}

	var inviter models.User
	if err := database.DB.First(&inviter, "id = ? AND is_active = ?", userID, true).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "User not found")
	}
	inviterName := inviter.Name
	if inviterName == "" {
		inviterName = inviter.Email
	}

	groupID := familyGroupFor(userID)

	// Make sure the inviter has their own row in the group.
	var selfRow models.FamilyMember
	if err := database.DB.Where("family_group_id = ? AND fm_user_id = ? AND is_active = ?",
		groupID, userID, true).First(&selfRow).Error; err != nil {
		database.DB.Create(&models.FamilyMember{
			UserID:        userID,
			FMUserID:      userID,
			FamilyGroupID: groupID,
			Relationship:  "me",
			Email:         inviter.Email,
			Name:          inviter.Name,
			Color:         planner.DefaultColor,
		})
	}

	// Default colors continue the palette from where the group left off.
	var existingCount int64
	database.DB.Model(&models.FamilyMember{}).
		Where("user_id = ? AND family_group_id = ? AND fm_user_id != ? AND is_active = ?",
			userID, groupID, userID, true).
		Count(&existingCount)

	invited := []models.MemberInfo{}
	pending := []fiber.Map{}
	failures := []fiber.Map{}

	for _, entry := range req.Members {
		if entry.Email == "" {
			failures = append(failures, fiber.Map{"email": entry.Email, "error": "email is required"})
			continue
		}
		if entry.Email == inviter.Email {
			failures = append(failures, fiber.Map{"email": entry.Email, "error": "cannot invite yourself"})
			continue
		}

		var invitee models.User
		if err := database.DB.Where("email = ? AND is_active = ?", entry.Email, true).First(&invitee).Error; err != nil {
			// Not registered yet: send the invite mail only, membership rows
			// are created once they sign up and get invited again.
			if mailErr := sendFamilyInvite(entry.Email, inviterName); mailErr != nil {
				failures = append(failures, fiber.Map{"email": entry.Email, "error": mailErr.Error()})
			} else {
				pending = append(pending, fiber.Map{"email": entry.Email, "status": "invite email sent"})
			}
			continue
		}

		var dup models.FamilyMember
		if err := database.DB.Where("user_id = ? AND fm_user_id = ? AND is_active = ?",
			userID, invitee.ID, true).First(&dup).Error; err == nil {
			failures = append(failures, fiber.Map{"email": entry.Email, "error": "already a family member"})
			continue
		}

		color := entry.Color
		if color == "" {
			color = planner.Palette[(int(existingCount)+len(invited))%len(planner.Palette)]
		}

		rows := []models.FamilyMember{
			{
				UserID:        userID,
				FMUserID:      invitee.ID,
				FamilyGroupID: groupID,
				Relationship:  entry.Relationship,
				Email:         invitee.Email,
				Name:          entry.Name,
				Color:         color,
				InvitedBy:     &userID,
			},
			{
				UserID:        invitee.ID,
				FMUserID:      userID,
				FamilyGroupID: groupID,
				Relationship:  "family",
				Email:         inviter.Email,
				Name:          inviter.Name,
				Color:         planner.DefaultColor,
				InvitedBy:     &userID,
			},
		}
		if err := database.DB.Create(&rows).Error; err != nil {
			failures = append(failures, fiber.Map{"email": entry.Email, "error": err.Error()})
			continue
		}

		if err := sendFamilyInvite(invitee.Email, inviterName); err != nil {
			log.Printf("family: invite mail to %s failed: %v", invitee.Email, err)
		}
		CreateNotification(invitee.ID, "family_invite",
			"You've been added to a family", inviterName+" added you to their family on Dockly",
			map[string]interface{}{"familyGroupId": groupID})

		invited = append(invited, models.MemberInfo{
			UserID:        invitee.ID,
			Email:         invitee.Email,
			Name:          entry.Name,
			Relationship:  entry.Relationship,
			Color:         color,
			FamilyGroupID: groupID,
		})
	}

	success := len(invited) > 0 || len(pending) > 0
	services.Audit(userID, "invite_members", "family", groupID, success, "",
		map[string]interface{}{"invited": len(invited), "pending": len(pending), "failed": len(failures)})

	if !success {
		return respondPartial(c, "No members could be invited", fiber.Map{"errors": failures}, "all invites failed")
	}
	return respondCreated(c, "Members invited", fiber.Map{
		"members": invited,
		"pending": pending,
		"errors":  failures,
	})
}

// GetFamilyMembers resolves the requester's family, optionally scoped to one
// group via ?family_group_id=.
func GetFamilyMembers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return respondErr(c, fiber.StatusUnauthorized, "Authentication required")
	}

	members := planner.ResolveFamilyMembers(userID, c.Query("family_group_id"))
	return respondOK(c, "OK", fiber.Map{"members": members})
}

// UpdateMember edits the requester's view of one family member.
func UpdateMember(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid member ID")
	}

	var row models.FamilyMember
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		memberID, userID, true).First(&row).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Family member not found")
	}

	var req models.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Relationship != nil {
		row.Relationship = *req.Relationship
	}
	if req.Color != nil {
		row.Color = *req.Color
	}
	if req.Name != nil {
		row.Name = *req.Name
	}

	if err := database.DB.Save(&row).Error; err != nil {
		services.Audit(userID, "update_member", "family_member", memberID.String(), false, err.Error(), nil)
		return respondErr(c, fiber.StatusInternalServerError, "Failed to update member")
	}

	services.Audit(userID, "update_member", "family_member", memberID.String(), true, "", nil)
	return respondOK(c, "Member updated", row)
}

// RemoveMember soft-deletes both directions of the relationship.
func RemoveMember(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	memberID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return respondErr(c, fiber.StatusBadRequest, "Invalid member ID")
	}

	var row models.FamilyMember
	if err := database.DB.Where("id = ? AND user_id = ? AND is_active = ?",
		memberID, userID, true).First(&row).Error; err != nil {
		return respondErr(c, fiber.StatusNotFound, "Family member not found or already removed")
	}

	if row.FMUserID == userID {
		return respondErr(c, fiber.StatusBadRequest, "Cannot remove yourself from your own family")
	}

	database.DB.Model(&models.FamilyMember{}).Where("id = ?", row.ID).Update("is_active", false)
	database.DB.Model(&models.FamilyMember{}).
		Where("user_id = ? AND fm_user_id = ? AND family_group_id = ?", row.FMUserID, userID, row.FamilyGroupID).
		Update("is_active", false)

	services.Audit(userID, "remove_member", "family_member", memberID.String(), true, "", nil)
	return respondOK(c, "Member removed", nil)
}
