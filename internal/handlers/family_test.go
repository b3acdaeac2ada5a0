package handlers

import (
	"net/http"
	"testing"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
)

func TestInviteMembersWritesBothDirections(t *testing.T) {
	app := setupTestApp(t)
	alice, aliceToken := createUserWithToken(t, "alice@example.com", models.RoleGuest)
	bob, _ := createUserWithToken(t, "bob@example.com", models.RoleGuest)

	code, env := doRequest(t, app, http.MethodPost, "/api/family/invite", aliceToken,
		`{"members":[{"email":"bob@example.com","name":"Bob","relationship":"brother"}]}`)
	if code != http.StatusCreated {
		t.Fatalf("code = %d, body %+v", code, env)
	}

	var rows []models.FamilyMember
	if err := database.DB.Where("is_active = ?", true).Find(&rows).Error; err != nil {
		t.Fatalf("load rows: %v", err)
	}
	// Self row for alice plus the two directed edges of the relationship.
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	groupID := rows[0].FamilyGroupID
	var aliceSeesBob, bobSeesAlice bool
	for _, row := range rows {
		if row.FamilyGroupID != groupID {
			t.Errorf("row group %q differs from %q", row.FamilyGroupID, groupID)
		}
		if row.UserID == alice.ID && row.FMUserID == bob.ID {
			aliceSeesBob = true
			if row.Relationship != "brother" {
				t.Errorf("relationship = %q", row.Relationship)
			}
		}
		if row.UserID == bob.ID && row.FMUserID == alice.ID {
			bobSeesAlice = true
		}
	}
	if !aliceSeesBob || !bobSeesAlice {
		t.Errorf("directed rows missing: alice->bob=%v bob->alice=%v", aliceSeesBob, bobSeesAlice)
	}

	// Invitee got a notification.
	var count int64
	database.DB.Model(&models.Notification{}).Where("user_id = ? AND type = ?", bob.ID, "family_invite").Count(&count)
	if count != 1 {
		t.Errorf("invite notifications = %d, want 1", count)
	}
}

func TestInviteMembersUnregisteredIsFailureEntry(t *testing.T) {
	app := setupTestApp(t)
	createUserWithToken(t, "alice@example.com", models.RoleGuest)
	_, token := createUserWithToken(t, "inviter@example.com", models.RoleGuest)

	// Mail is unconfigured here, so the unregistered invite cannot even be
	// delivered and the whole batch fails.
	code, env := doRequest(t, app, http.MethodPost, "/api/family/invite", token,
		`{"members":[{"email":"stranger@example.com"}]}`)
	if code != http.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if env.Status != 0 {
		t.Errorf("status = %d, want 0", env.Status)
	}

	var count int64
	database.DB.Model(&models.FamilyMember{}).Where("email = ?", "stranger@example.com").Count(&count)
	if count != 0 {
		t.Errorf("unregistered invite created %d member rows", count)
	}
}

func TestInviteUnregisteredDeliveredIsPending(t *testing.T) {
	app := setupTestApp(t)
	_, token := createUserWithToken(t, "inviter@example.com", models.RoleGuest)

	original := sendFamilyInvite
	sendFamilyInvite = func(email, inviterName string) error { return nil }
	defer func() { sendFamilyInvite = original }()

	code, env := doRequest(t, app, http.MethodPost, "/api/family/invite", token,
		`{"members":[{"email":"stranger@example.com"}]}`)
	if code != http.StatusCreated {
		t.Fatalf("code = %d, body %+v", code, env)
	}
	// The mail went out, so the batch succeeded even with zero new members.
	if env.Status != 1 {
		t.Errorf("status = %d, want 1", env.Status)
	}

	pending, ok := env.Payload["pending"].([]interface{})
	if !ok || len(pending) != 1 {
		t.Fatalf("pending = %v, want one entry", env.Payload["pending"])
	}
	if email := pending[0].(map[string]interface{})["email"]; email != "stranger@example.com" {
		t.Errorf("pending email = %v", email)
	}

	var count int64
	database.DB.Model(&models.FamilyMember{}).Where("email = ?", "stranger@example.com").Count(&count)
	if count != 0 {
		t.Errorf("pending invite created %d member rows", count)
	}
}

func TestInviteDefaultColorsContinuePalette(t *testing.T) {
	app := setupTestApp(t)
	alice, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)
	bob, _ := createUserWithToken(t, "bob@example.com", models.RoleGuest)
	carol, _ := createUserWithToken(t, "carol@example.com", models.RoleGuest)

	doRequest(t, app, http.MethodPost, "/api/family/invite", token,
		`{"members":[{"email":"bob@example.com"}]}`)
	doRequest(t, app, http.MethodPost, "/api/family/invite", token,
		`{"members":[{"email":"carol@example.com"}]}`)

	var bobEdge, carolEdge models.FamilyMember
	if err := database.DB.Where("user_id = ? AND fm_user_id = ?", alice.ID, bob.ID).First(&bobEdge).Error; err != nil {
		t.Fatalf("bob edge missing: %v", err)
	}
	if err := database.DB.Where("user_id = ? AND fm_user_id = ?", alice.ID, carol.ID).First(&carolEdge).Error; err != nil {
		t.Fatalf("carol edge missing: %v", err)
	}

	if bobEdge.Color != planner.Palette[0] {
		t.Errorf("first invitee color = %q, want %q", bobEdge.Color, planner.Palette[0])
	}
	// A later request picks up where the group's enumeration left off.
	if carolEdge.Color != planner.Palette[1] {
		t.Errorf("second invitee color = %q, want %q", carolEdge.Color, planner.Palette[1])
	}
}

func TestInviteSelfRejected(t *testing.T) {
	app := setupTestApp(t)
	_, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)

	_, env := doRequest(t, app, http.MethodPost, "/api/family/invite", token,
		`{"members":[{"email":"alice@example.com"}]}`)
	if env.Status != 0 {
		t.Errorf("status = %d, want 0 for self-invite", env.Status)
	}
}

func TestRemoveMemberSoftDeletesBothRows(t *testing.T) {
	app := setupTestApp(t)
	alice, aliceToken := createUserWithToken(t, "alice@example.com", models.RoleGuest)
	bob, _ := createUserWithToken(t, "bob@example.com", models.RoleGuest)

	doRequest(t, app, http.MethodPost, "/api/family/invite", aliceToken,
		`{"members":[{"email":"bob@example.com"}]}`)

	var edge models.FamilyMember
	if err := database.DB.Where("user_id = ? AND fm_user_id = ?", alice.ID, bob.ID).First(&edge).Error; err != nil {
		t.Fatalf("edge row missing: %v", err)
	}

	code, _ := doRequest(t, app, http.MethodDelete, "/api/family/members/"+edge.ID.String(), aliceToken, "")
	if code != http.StatusOK {
		t.Fatalf("remove: code = %d", code)
	}

	var active int64
	database.DB.Model(&models.FamilyMember{}).
		Where("is_active = ? AND (fm_user_id = ? OR user_id = ?)", true, bob.ID, bob.ID).
		Count(&active)
	if active != 0 {
		t.Errorf("%d active rows still reference the removed member", active)
	}

	// Removing again reports not found.
	code, _ = doRequest(t, app, http.MethodDelete, "/api/family/members/"+edge.ID.String(), aliceToken, "")
	if code != http.StatusNotFound {
		t.Errorf("second remove: code = %d, want 404", code)
	}
}

func TestRemoveSelfRejected(t *testing.T) {
	app := setupTestApp(t)
	alice, token := createUserWithToken(t, "alice@example.com", models.RoleGuest)
	createUserWithToken(t, "bob@example.com", models.RoleGuest)

	doRequest(t, app, http.MethodPost, "/api/family/invite", token,
		`{"members":[{"email":"bob@example.com"}]}`)

	var selfRow models.FamilyMember
	if err := database.DB.Where("user_id = ? AND fm_user_id = ?", alice.ID, alice.ID).First(&selfRow).Error; err != nil {
		t.Fatalf("self row missing: %v", err)
	}

	code, _ := doRequest(t, app, http.MethodDelete, "/api/family/members/"+selfRow.ID.String(), token, "")
	if code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", code)
	}
}
