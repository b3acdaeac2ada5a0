package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
)

// DedupKey identifies "the same event seen twice": normalized source email,
// normalized summary, and the date portion of the start timestamp.
func DedupKey(e CalendarEvent) string {
	email := strings.ToLower(strings.TrimSpace(e.SourceEmail))
	summary := strings.ToLower(strings.TrimSpace(e.Summary))
	date := e.Start.DateTime
	if i := strings.Index(date, "T"); i > 0 {
		date = date[:i]
	}
	return email + "|" + summary + "|" + date
}

func startTime(e CalendarEvent) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, e.Start.DateTime)
	return t, err == nil
}

// MergeEvents combines Dockly-native projections with external provider
// events. Dockly events are indexed first; a Google event whose key collides
// with a Dockly one is dropped (an event created natively and pushed to
// Google should not show twice). First seen wins on any other collision. An
// optional allow-list of source emails filters both sides. The result is
// sorted ascending by start time.
func MergeEvents(docklyEvents, providerEvents []CalendarEvent, filteredEmails []string) []CalendarEvent {
	allowed := map[string]bool{}
	for _, email := range filteredEmails {
		allowed[strings.ToLower(strings.TrimSpace(email))] = true
	}
	keep := func(e CalendarEvent) bool {
		if len(allowed) == 0 {
			return true
		}
		return allowed[strings.ToLower(strings.TrimSpace(e.SourceEmail))]
	}

	seen := map[string]bool{}
	merged := []CalendarEvent{}

	for _, e := range docklyEvents {
		if !keep(e) {
			continue
		}
		key := DedupKey(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, e)
	}

	for _, e := range providerEvents {
		if !keep(e) {
			continue
		}
		key := DedupKey(e)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, e)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ti, iok := startTime(merged[i])
		tj, jok := startTime(merged[j])
		if iok && jok {
			return ti.Before(tj)
		}
		return merged[i].Start.DateTime < merged[j].Start.DateTime
	})

	return merged
}

// MemberColors maps each resolved member's user id to their display color.
func MemberColors(members []models.MemberInfo) map[string]string {
	colors := make(map[string]string, len(members))
	for _, m := range members {
		color := m.Color
		if color == "" {
			color = DefaultColor
		}
		colors[m.UserID.String()] = color
	}
	return colors
}

// AccountColors assigns a color per connected account email: the matching
// family member's stored color when one exists, otherwise the palette cycled
// over accounts sorted by (provider, email) so assignment is deterministic
// for a given account set.
func AccountColors(members []models.MemberInfo, accounts []models.ConnectedAccount) map[string]string {
	sorted := make([]models.ConnectedAccount, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Provider != sorted[j].Provider {
			return sorted[i].Provider < sorted[j].Provider
		}
		return sorted[i].Email < sorted[j].Email
	})

	memberColor := map[string]string{}
	for _, m := range members {
		if m.Color != "" {
			memberColor[strings.ToLower(m.Email)] = m.Color
		}
	}

	colors := make(map[string]string, len(sorted))
	for i, acct := range sorted {
		if color, ok := memberColor[strings.ToLower(acct.Email)]; ok {
			colors[acct.Email] = color
			continue
		}
		colors[acct.Email] = Palette[i%len(Palette)]
	}
	return colors
}

// UpcomingEvents applies the asymmetric sub-selection rule: Google events
// owned by the requester when any Google account is connected; otherwise
// Dockly events owned by the requester when Dockly events are enabled;
// otherwise nothing.
func UpcomingEvents(merged []CalendarEvent, requesterID uuid.UUID, hasGoogle, showDockly bool) []CalendarEvent {
	uid := requesterID.String()
	upcoming := []CalendarEvent{}
	switch {
	case hasGoogle:
		for _, e := range merged {
			if e.Provider == models.ProviderGoogle && e.UserID == uid {
				upcoming = append(upcoming, e)
			}
		}
	case showDockly:
		for _, e := range merged {
			if e.Provider == ProviderDockly && e.UserID == uid {
				upcoming = append(upcoming, e)
			}
		}
	}
	return upcoming
}
