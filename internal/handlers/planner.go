package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dockly/dockly-api/internal/database"
	"github.com/dockly/dockly-api/internal/middleware"
	"github.com/dockly/dockly-api/internal/models"
	"github.com/dockly/dockly-api/internal/planner"
	"github.com/dockly/dockly-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Provider fetchers, swappable in tests.
var (
	fetchGoogleEvents  = services.FetchGoogleEvents
	fetchOutlookEvents = services.FetchOutlookEvents
)

// GetPlannerData is the comprehensive aggregation endpoint: family
// membership, every member's connected calendars, and all Dockly-native
// planner entities merged into one deduplicated event list. Per-account
// provider failures are collected, never fatal; an unexpected failure during
// assembly still returns a well-formed envelope with the partial payload.
func GetPlannerData(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return respondErr(c, fiber.StatusUnauthorized, "Authentication required")
	}

	showDockly := c.QueryBool("show_dockly", true)
	familyGroupID := c.Query("family_group_id")
	filteredEmails := queryStrings(c, "filtered_emails", "filtered_emails[]")

	payload := fiber.Map{
		"goals":              []models.Goal{},
		"todos":              []models.Todo{},
		"events":             []planner.CalendarEvent{},
		"notes":              []models.Note{},
		"connected_accounts": []models.ConnectedAccount{},
		"person_colors":      map[string]string{},
		"family_members":     []models.MemberInfo{},
		"upcoming_events":    []planner.CalendarEvent{},
		"errors":             []services.ProviderError{},
		"filters": fiber.Map{
			"show_dockly":     showDockly,
			"filtered_emails": filteredEmails,
			"family_group_id": familyGroupID,
		},
	}

	var assembleErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("planner: aggregation panicked for %s: %v", userID, r)
				assembleErr = fmt.Errorf("%v", r)
			}
		}()
		assemblePlannerData(c.Context(), userID, showDockly, familyGroupID, filteredEmails, payload)
	}()

	if assembleErr != nil {
		services.Audit(userID, "get_planner_data", "planner", "", false, assembleErr.Error(), nil)
		return respondPartial(c, "Failed to fetch planner data", payload, assembleErr.Error())
	}
	return respondOK(c, "OK", payload)
}

func assemblePlannerData(ctx context.Context, userID uuid.UUID, showDockly bool, familyGroupID string, filteredEmails []string, payload fiber.Map) {
	members := planner.ResolveFamilyMembers(userID, familyGroupID)
	payload["family_members"] = members
	payload["person_colors"] = planner.MemberColors(members)

	memberByID := make(map[uuid.UUID]models.MemberInfo, len(members))
	memberIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		memberByID[m.UserID] = m
		memberIDs = append(memberIDs, m.UserID)
	}
	if len(memberIDs) == 0 {
		memberIDs = append(memberIDs, userID)
	}

	// Every resolved member's connected calendar accounts feed the merge.
	var accounts []models.ConnectedAccount
	database.DB.Where("user_id IN ? AND is_active = ?", memberIDs, true).Find(&accounts)
	payload["connected_accounts"] = accounts

	accountColors := planner.AccountColors(members, accounts)

	providerErrors := []services.ProviderError{}
	var providerEvents []planner.CalendarEvent
	hasGoogle := false

	for i := range accounts {
		account := &accounts[i]
		color := accountColors[account.Email]

		var events []planner.CalendarEvent
		var err error
		switch account.Provider {
		case models.ProviderGoogle:
			hasGoogle = true
			events, err = fetchGoogleEvents(ctx, account, color)
		case models.ProviderMicrosoft, models.ProviderOutlook:
			events, err = fetchOutlookEvents(ctx, account, color)
		default:
			continue
		}

		if err != nil {
			providerErrors = append(providerErrors, services.ProviderError{
				Email:    account.Email,
				Provider: account.Provider,
				Error:    err.Error(),
			})
			continue
		}
		providerEvents = append(providerEvents, events...)
	}
	payload["errors"] = providerErrors

	var docklyEvents []planner.CalendarEvent
	if showDockly {
		now := time.Now()
		owner := func(id uuid.UUID) planner.Owner {
			if m, ok := memberByID[id]; ok {
				return planner.Owner{UserID: m.UserID, Email: m.Email, Color: m.Color}
			}
			return planner.Owner{UserID: id}
		}

		var goals []models.Goal
		database.DB.Where("user_id IN ? AND is_active = ?", memberIDs, true).Find(&goals)
		payload["goals"] = goals
		for _, g := range goals {
			docklyEvents = append(docklyEvents, planner.ProjectGoal(g, owner(g.UserID)))
		}

		var todos []models.Todo
		database.DB.Where("user_id IN ? AND is_active = ?", memberIDs, true).Find(&todos)
		payload["todos"] = todos
		for _, t := range todos {
			docklyEvents = append(docklyEvents, planner.ProjectTodo(t, owner(t.UserID)))
		}

		var notes []models.Note
		database.DB.Where("user_id IN ? AND is_active = ?", memberIDs, true).Find(&notes)
		payload["notes"] = notes
		for _, n := range notes {
			docklyEvents = append(docklyEvents, planner.ProjectNote(n, owner(n.UserID), now))
		}

		var manual []models.PlannerEvent
		database.DB.Where("user_id IN ? AND is_active = ?", memberIDs, true).Find(&manual)
		for _, e := range manual {
			docklyEvents = append(docklyEvents, planner.ProjectEvent(e, owner(e.UserID)))
		}
	}

	merged := planner.MergeEvents(docklyEvents, providerEvents, filteredEmails)
	payload["events"] = merged
	payload["upcoming_events"] = planner.UpcomingEvents(merged, userID, hasGoogle, showDockly)
}

// queryStrings collects a repeatable query parameter under any of its names.
func queryStrings(c *fiber.Ctx, keys ...string) []string {
	var values []string
	args := c.Context().QueryArgs()
	for _, key := range keys {
		for _, v := range args.PeekMulti(key) {
			if len(v) > 0 {
				values = append(values, string(v))
			}
		}
	}
	return values
}
