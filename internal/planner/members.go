package planner

import (
	"log"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
)

// ResolveFamilyMembers produces the de-duplicated set of family member
// identities visible to userID: self plus everyone invited by or inviting the
// user. When familyGroupID is supplied, membership is scoped to that single
// group; otherwise it is unioned across every group the user belongs to.
//
// Never fails to its caller: persistence errors are logged and yield an
// empty list.
func ResolveFamilyMembers(userID uuid.UUID, familyGroupID string) []models.MemberInfo {
	var rows []models.FamilyMember

	if familyGroupID != "" {
		if err := database.DB.Where("family_group_id = ? AND is_active = ?", familyGroupID, true).
			Order("created_at ASC").Find(&rows).Error; err != nil {
			log.Printf("planner: family lookup failed for group %s: %v", familyGroupID, err)
			return nil
		}
	} else {
		var groupIDs []string
		if err := database.DB.Model(&models.FamilyMember{}).
			Where("fm_user_id = ? AND is_active = ?", userID, true).
			Distinct().Pluck("family_group_id", &groupIDs).Error; err != nil {
			log.Printf("planner: group lookup failed for user %s: %v", userID, err)
			return nil
		}
		if len(groupIDs) > 0 {
			if err := database.DB.Where("family_group_id IN ? AND is_active = ?", groupIDs, true).
				Order("created_at ASC").Find(&rows).Error; err != nil {
				log.Printf("planner: member lookup failed for user %s: %v", userID, err)
				return nil
			}
		}
	}

	if len(rows) == 0 {
		// A scoped lookup that matches nothing never creates a group: the
		// user may already have one the stale id simply does not name.
		return selfOnlyFamily(userID, familyGroupID == "")
	}

	// De-duplicate by fm_user_id, first occurrence wins.
	seen := map[uuid.UUID]bool{}
	var members []models.MemberInfo
	for _, row := range rows {
		if seen[row.FMUserID] {
			continue
		}
		seen[row.FMUserID] = true

		relationship := row.Relationship
		if row.FMUserID == userID {
			relationship = "me"
		}
		members = append(members, models.MemberInfo{
			UserID:        row.FMUserID,
			Email:         row.Email,
			Name:          row.Name,
			Relationship:  relationship,
			Color:         row.Color,
			FamilyGroupID: row.FamilyGroupID,
		})
	}

	if !seen[userID] {
		// The requester can see the group without having a member row of
		// their own in it. Surface them anyway, without persisting anything.
		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
			self := models.MemberInfo{
				UserID:        userID,
				Email:         user.Email,
				Name:          user.Name,
				Relationship:  "me",
				Color:         DefaultColor,
				FamilyGroupID: members[0].FamilyGroupID,
			}
			members = append([]models.MemberInfo{self}, members...)
		}
	}

	return members
}

// selfOnlyFamily synthesizes a single-member family. When allowCreate is set,
// paid members get a persisted group row as a side effect the first time;
// guests and scoped lookups get an ephemeral result.
func selfOnlyFamily(userID uuid.UUID, allowCreate bool) []models.MemberInfo {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("planner: user lookup failed for %s: %v", userID, err)
		return nil
	}

	groupID := ""
	if allowCreate && user.Role == models.RolePaidMember {
		groupID = uuid.NewString()
		row := models.FamilyMember{
			UserID:        userID,
			FMUserID:      userID,
			FamilyGroupID: groupID,
			Relationship:  "me",
			Email:         user.Email,
			Name:          user.Name,
			Color:         DefaultColor,
		}
		if err := database.DB.Create(&row).Error; err != nil {
			log.Printf("planner: failed to auto-create family group for %s: %v", userID, err)
			groupID = ""
		}
	}

	return []models.MemberInfo{{
		UserID:        userID,
		Email:         user.Email,
		Name:          user.Name,
		Relationship:  "me",
		Color:         DefaultColor,
		FamilyGroupID: groupID,
	}}
}
