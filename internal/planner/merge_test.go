package planner

import (
	"testing"

	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
)

func mkEvent(id, summary, email, start, provider, userID string) CalendarEvent {
	return CalendarEvent{
		ID:          id,
		Summary:     summary,
		Start:       EventTime{DateTime: start},
		End:         EventTime{DateTime: start},
		Source:      provider,
		SourceEmail: email,
		Provider:    provider,
		UserID:      userID,
	}
}

func TestDedupKeyNormalization(t *testing.T) {
	a := mkEvent("1", "Team Standup", "Alice@Example.com ", "2024-03-01T09:00:00Z", "google", "")
	b := mkEvent("2", "  team standup", "alice@example.com", "2024-03-01T17:00:00Z", ProviderDockly, "")

	if DedupKey(a) != DedupKey(b) {
		t.Errorf("keys differ: %q vs %q", DedupKey(a), DedupKey(b))
	}

	c := mkEvent("3", "team standup", "alice@example.com", "2024-03-02T09:00:00Z", "google", "")
	if DedupKey(a) == DedupKey(c) {
		t.Error("different dates should not collide")
	}
}

func TestMergeEventsDocklyWinsOverGoogle(t *testing.T) {
	dockly := []CalendarEvent{
		mkEvent("event_1", "Dinner", "alice@example.com", "2024-03-01T18:00:00Z", ProviderDockly, "u1"),
	}
	google := []CalendarEvent{
		mkEvent("g_abc", "Dinner", "alice@example.com", "2024-03-01T18:00:00Z", "google", "u1"),
		mkEvent("g_def", "Lunch", "alice@example.com", "2024-03-01T12:00:00Z", "google", "u1"),
	}

	merged := MergeEvents(dockly, google, nil)

	if len(merged) != 2 {
		t.Fatalf("len = %d, want 2", len(merged))
	}
	for _, e := range merged {
		if e.ID == "g_abc" {
			t.Error("google duplicate of a dockly event survived the merge")
		}
	}
}

func TestMergeEventsFirstSeenWins(t *testing.T) {
	dockly := []CalendarEvent{
		mkEvent("event_1", "Dinner", "alice@example.com", "2024-03-01T18:00:00Z", ProviderDockly, "u1"),
		mkEvent("event_2", "Dinner", "alice@example.com", "2024-03-01T20:00:00Z", ProviderDockly, "u1"),
	}

	merged := MergeEvents(dockly, nil, nil)

	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	if merged[0].ID != "event_1" {
		t.Errorf("kept %q, want the first occurrence", merged[0].ID)
	}
}

func TestMergeEventsEmailFilter(t *testing.T) {
	dockly := []CalendarEvent{
		mkEvent("event_1", "A", "alice@example.com", "2024-03-01T09:00:00Z", ProviderDockly, "u1"),
		mkEvent("event_2", "B", "bob@example.com", "2024-03-01T10:00:00Z", ProviderDockly, "u2"),
	}
	google := []CalendarEvent{
		mkEvent("g_1", "C", "carol@example.com", "2024-03-01T11:00:00Z", "google", "u3"),
	}

	merged := MergeEvents(dockly, google, []string{" Alice@Example.com "})

	if len(merged) != 1 {
		t.Fatalf("len = %d, want 1", len(merged))
	}
	if merged[0].ID != "event_1" {
		t.Errorf("kept %q", merged[0].ID)
	}
}

func TestMergeEventsSortedByStart(t *testing.T) {
	events := []CalendarEvent{
		mkEvent("3", "C", "a@x.com", "2024-03-03T09:00:00Z", ProviderDockly, ""),
		mkEvent("1", "A", "a@x.com", "2024-03-01T09:00:00Z", ProviderDockly, ""),
		mkEvent("2", "B", "a@x.com", "2024-03-02T09:00:00Z", ProviderDockly, ""),
	}

	merged := MergeEvents(events, nil, nil)

	want := []string{"1", "2", "3"}
	for i, e := range merged {
		if e.ID != want[i] {
			t.Errorf("merged[%d].ID = %q, want %q", i, e.ID, want[i])
		}
	}
}

func TestAccountColorsDeterministic(t *testing.T) {
	accounts := []models.ConnectedAccount{
		{Provider: "outlook", Email: "b@x.com"},
		{Provider: "google", Email: "a@x.com"},
	}

	colors := AccountColors(nil, accounts)

	// Sorted by (provider, email): google/a@x.com first.
	if colors["a@x.com"] != Palette[0] {
		t.Errorf("a@x.com = %q, want %q", colors["a@x.com"], Palette[0])
	}
	if colors["b@x.com"] != Palette[1] {
		t.Errorf("b@x.com = %q, want %q", colors["b@x.com"], Palette[1])
	}

	// Input order must not matter.
	reversed := AccountColors(nil, []models.ConnectedAccount{accounts[1], accounts[0]})
	if reversed["a@x.com"] != colors["a@x.com"] || reversed["b@x.com"] != colors["b@x.com"] {
		t.Error("color assignment depends on input order")
	}
}

func TestAccountColorsPrefersMemberColor(t *testing.T) {
	members := []models.MemberInfo{
		{UserID: uuid.New(), Email: "Alice@Example.com", Color: "#123456"},
	}
	accounts := []models.ConnectedAccount{
		{Provider: "google", Email: "alice@example.com"},
	}

	colors := AccountColors(members, accounts)
	if colors["alice@example.com"] != "#123456" {
		t.Errorf("color = %q, want member color", colors["alice@example.com"])
	}
}

func TestMemberColors(t *testing.T) {
	withColor := uuid.New()
	without := uuid.New()
	colors := MemberColors([]models.MemberInfo{
		{UserID: withColor, Color: "#00FF00"},
		{UserID: without},
	})

	if colors[withColor.String()] != "#00FF00" {
		t.Errorf("stored color not returned")
	}
	if colors[without.String()] != DefaultColor {
		t.Errorf("missing color should fall back to default, got %q", colors[without.String()])
	}
}

func TestUpcomingEvents(t *testing.T) {
	requester := uuid.New()
	other := uuid.New()
	merged := []CalendarEvent{
		mkEvent("g1", "A", "a@x.com", "2024-03-01T09:00:00Z", "google", requester.String()),
		mkEvent("g2", "B", "b@x.com", "2024-03-01T10:00:00Z", "google", other.String()),
		mkEvent("d1", "C", "a@x.com", "2024-03-01T11:00:00Z", ProviderDockly, requester.String()),
		mkEvent("o1", "D", "a@x.com", "2024-03-01T12:00:00Z", "outlook", requester.String()),
	}

	google := UpcomingEvents(merged, requester, true, true)
	if len(google) != 1 || google[0].ID != "g1" {
		t.Errorf("with google connected: got %v", ids(google))
	}

	dockly := UpcomingEvents(merged, requester, false, true)
	if len(dockly) != 1 || dockly[0].ID != "d1" {
		t.Errorf("without google: got %v", ids(dockly))
	}

	none := UpcomingEvents(merged, requester, false, false)
	if len(none) != 0 {
		t.Errorf("dockly hidden: got %v", ids(none))
	}
}

func ids(events []CalendarEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.ID
	}
	return out
}
