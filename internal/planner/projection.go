package planner

import (
	"fmt"
	"time"

	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
)

// Owner is the resolved family member a projected event belongs to.
type Owner struct {
	UserID uuid.UUID
	Email  string
	Color  string
}

func (o Owner) sourceEmail() string {
	if o.Email != "" {
		return o.Email
	}
	return "dockly@user" + o.UserID.String() + ".com"
}

func (o Owner) color() string {
	if o.Color != "" {
		return o.Color
	}
	return DefaultColor
}

// ProjectGoal renders a goal as a full-day event on its date.
func ProjectGoal(g models.Goal, owner Owner) CalendarEvent {
	return CalendarEvent{
		ID:           "goal_" + g.ID.String(),
		Summary:      g.Title,
		Start:        EventTime{DateTime: g.Date + "T00:00:00Z"},
		End:          EventTime{DateTime: g.Date + "T23:59:59Z"},
		Type:         "goal",
		Source:       ProviderDockly,
		SourceEmail:  owner.sourceEmail(),
		Provider:     ProviderDockly,
		AccountColor: owner.color(),
		UserID:       owner.UserID.String(),
	}
}

// ProjectTodo renders a todo as a full-day event on its date.
func ProjectTodo(t models.Todo, owner Owner) CalendarEvent {
	return CalendarEvent{
		ID:           "todo_" + t.ID.String(),
		Summary:      t.Title,
		Start:        EventTime{DateTime: t.Date + "T00:00:00Z"},
		End:          EventTime{DateTime: t.Date + "T23:59:59Z"},
		Type:         "todo",
		Source:       ProviderDockly,
		SourceEmail:  owner.sourceEmail(),
		Provider:     ProviderDockly,
		AccountColor: owner.color(),
		UserID:       owner.UserID.String(),
	}
}

// ProjectNote renders a note as a one-hour event anchored at its timing,
// falling back to created_at, then to now when neither parses.
func ProjectNote(n models.Note, owner Owner, now time.Time) CalendarEvent {
	anchor := now
	if n.Timing != nil {
		if ts, err := time.Parse(time.RFC3339, *n.Timing); err == nil {
			anchor = ts
		} else if !n.CreatedAt.IsZero() {
			anchor = n.CreatedAt
		}
	} else if !n.CreatedAt.IsZero() {
		anchor = n.CreatedAt
	}
	anchor = anchor.UTC()

	return CalendarEvent{
		ID:           "note_" + n.ID.String(),
		Summary:      n.Title,
		Start:        EventTime{DateTime: anchor.Format(time.RFC3339)},
		End:          EventTime{DateTime: anchor.Add(time.Hour).Format(time.RFC3339)},
		Type:         "note",
		Source:       ProviderDockly,
		SourceEmail:  owner.sourceEmail(),
		Provider:     ProviderDockly,
		AccountColor: owner.color(),
		UserID:       owner.UserID.String(),
	}
}

// isAllDaySentinel reports whether a manual event's stored times are the
// literal pair clients use to mean "all day".
func isAllDaySentinel(startTime, endTime string) bool {
	return startTime == "12:00 AM" && (endTime == "11:59 PM" || endTime == "11:59:59 PM")
}

// parseClock parses a 12-hour clock string like "9:30 AM". Unparseable input
// maps to midnight.
func parseClock(s string) (hour, minute, second int) {
	for _, layout := range []string{"3:04 PM", "3:04:05 PM", "15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), t.Second()
		}
	}
	return 0, 0, 0
}

// ProjectEvent renders a manually created event. The stored time-of-day is
// copied verbatim, except the all-day sentinel, which pushes the end date
// forward one calendar day.
func ProjectEvent(e models.PlannerEvent, owner Owner) CalendarEvent {
	endDate := e.EndDate
	if endDate == "" {
		endDate = e.Date
	}

	var start, end string
	if isAllDaySentinel(e.StartTime, e.EndTime) {
		start = e.Date + "T00:00:00Z"
		if d, err := time.Parse("2006-01-02", endDate); err == nil {
			end = d.AddDate(0, 0, 1).Format("2006-01-02") + "T00:00:00Z"
		} else {
			end = endDate + "T00:00:00Z"
		}
	} else {
		sh, sm, ss := parseClock(e.StartTime)
		eh, em, es := parseClock(e.EndTime)
		start = fmt.Sprintf("%sT%02d:%02d:%02dZ", e.Date, sh, sm, ss)
		end = fmt.Sprintf("%sT%02d:%02d:%02dZ", endDate, eh, em, es)
	}

	return CalendarEvent{
		ID:           "event_" + e.ID.String(),
		Summary:      e.Title,
		Start:        EventTime{DateTime: start},
		End:          EventTime{DateTime: end},
		Type:         "event",
		Source:       ProviderDockly,
		SourceEmail:  owner.sourceEmail(),
		Provider:     ProviderDockly,
		AccountColor: owner.color(),
		UserID:       owner.UserID.String(),
	}
}
