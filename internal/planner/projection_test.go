package planner

import (
	"testing"
	"time"

	"github.com/dockly/dockly-api/internal/models"
	"github.com/google/uuid"
)

func TestProjectGoalFullDay(t *testing.T) {
	goalID := uuid.New()
	ownerID := uuid.New()
	goal := models.Goal{ID: goalID, Title: "Pay rent", Date: "2024-03-01"}
	owner := Owner{UserID: ownerID, Email: "alice@example.com", Color: "#AA0000"}

	event := ProjectGoal(goal, owner)

	if event.ID != "goal_"+goalID.String() {
		t.Errorf("id = %q", event.ID)
	}
	if event.Start.DateTime != "2024-03-01T00:00:00Z" {
		t.Errorf("start = %q", event.Start.DateTime)
	}
	if event.End.DateTime != "2024-03-01T23:59:59Z" {
		t.Errorf("end = %q", event.End.DateTime)
	}
	if event.Type != "goal" || event.Provider != ProviderDockly || event.Source != ProviderDockly {
		t.Errorf("type/provider/source = %q/%q/%q", event.Type, event.Provider, event.Source)
	}
	if event.SourceEmail != "alice@example.com" {
		t.Errorf("source_email = %q", event.SourceEmail)
	}
	if event.AccountColor != "#AA0000" {
		t.Errorf("account_color = %q", event.AccountColor)
	}
	if event.UserID != ownerID.String() {
		t.Errorf("user_id = %q", event.UserID)
	}
}

func TestProjectGoalOwnerFallbacks(t *testing.T) {
	ownerID := uuid.New()
	event := ProjectGoal(models.Goal{ID: uuid.New(), Title: "x", Date: "2024-01-01"}, Owner{UserID: ownerID})

	want := "dockly@user" + ownerID.String() + ".com"
	if event.SourceEmail != want {
		t.Errorf("source_email = %q, want %q", event.SourceEmail, want)
	}
	if event.AccountColor != DefaultColor {
		t.Errorf("account_color = %q, want default", event.AccountColor)
	}
}

func TestProjectTodoFullDay(t *testing.T) {
	todo := models.Todo{ID: uuid.New(), Title: "Buy milk", Date: "2024-06-15"}
	event := ProjectTodo(todo, Owner{UserID: uuid.New()})

	if event.Start.DateTime != "2024-06-15T00:00:00Z" || event.End.DateTime != "2024-06-15T23:59:59Z" {
		t.Errorf("start/end = %q/%q", event.Start.DateTime, event.End.DateTime)
	}
	if event.Type != "todo" {
		t.Errorf("type = %q", event.Type)
	}
}

func TestProjectNoteAnchors(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	created := time.Date(2024, 4, 20, 8, 30, 0, 0, time.UTC)
	timing := "2024-04-25T14:00:00Z"
	badTiming := "not-a-timestamp"

	tests := []struct {
		name      string
		note      models.Note
		wantStart string
		wantEnd   string
	}{
		{
			name:      "timing wins",
			note:      models.Note{ID: uuid.New(), Title: "n", Timing: &timing, CreatedAt: created},
			wantStart: "2024-04-25T14:00:00Z",
			wantEnd:   "2024-04-25T15:00:00Z",
		},
		{
			name:      "bad timing falls back to created_at",
			note:      models.Note{ID: uuid.New(), Title: "n", Timing: &badTiming, CreatedAt: created},
			wantStart: "2024-04-20T08:30:00Z",
			wantEnd:   "2024-04-20T09:30:00Z",
		},
		{
			name:      "no timing falls back to created_at",
			note:      models.Note{ID: uuid.New(), Title: "n", CreatedAt: created},
			wantStart: "2024-04-20T08:30:00Z",
			wantEnd:   "2024-04-20T09:30:00Z",
		},
		{
			name:      "nothing falls back to now",
			note:      models.Note{ID: uuid.New(), Title: "n"},
			wantStart: "2024-05-01T10:00:00Z",
			wantEnd:   "2024-05-01T11:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := ProjectNote(tt.note, Owner{UserID: uuid.New()}, now)
			if event.Start.DateTime != tt.wantStart {
				t.Errorf("start = %q, want %q", event.Start.DateTime, tt.wantStart)
			}
			if event.End.DateTime != tt.wantEnd {
				t.Errorf("end = %q, want %q", event.End.DateTime, tt.wantEnd)
			}
		})
	}
}

func TestProjectEventAllDaySentinel(t *testing.T) {
	tests := []struct {
		name      string
		event     models.PlannerEvent
		wantStart string
		wantEnd   string
	}{
		{
			name: "single day all-day pushes end to next day",
			event: models.PlannerEvent{
				ID: uuid.New(), Title: "Holiday",
				Date: "2024-03-10", StartTime: "12:00 AM", EndTime: "11:59 PM",
			},
			wantStart: "2024-03-10T00:00:00Z",
			wantEnd:   "2024-03-11T00:00:00Z",
		},
		{
			name: "seconds variant of the sentinel",
			event: models.PlannerEvent{
				ID: uuid.New(), Title: "Holiday",
				Date: "2024-12-31", StartTime: "12:00 AM", EndTime: "11:59:59 PM",
			},
			wantStart: "2024-12-31T00:00:00Z",
			wantEnd:   "2025-01-01T00:00:00Z",
		},
		{
			name: "multi-day all-day",
			event: models.PlannerEvent{
				ID: uuid.New(), Title: "Trip",
				Date: "2024-07-01", EndDate: "2024-07-03",
				StartTime: "12:00 AM", EndTime: "11:59 PM",
			},
			wantStart: "2024-07-01T00:00:00Z",
			wantEnd:   "2024-07-04T00:00:00Z",
		},
		{
			name: "timed event copies clock verbatim",
			event: models.PlannerEvent{
				ID: uuid.New(), Title: "Dentist",
				Date: "2024-03-10", StartTime: "9:30 AM", EndTime: "10:15 AM",
			},
			wantStart: "2024-03-10T09:30:00Z",
			wantEnd:   "2024-03-10T10:15:00Z",
		},
		{
			name: "afternoon times",
			event: models.PlannerEvent{
				ID: uuid.New(), Title: "Call",
				Date: "2024-03-10", StartTime: "1:00 PM", EndTime: "11:59 PM",
			},
			wantStart: "2024-03-10T13:00:00Z",
			wantEnd:   "2024-03-10T23:59:00Z",
		},
		{
			name: "unparseable clock maps to midnight",
			event: models.PlannerEvent{
				ID: uuid.New(), Title: "???",
				Date: "2024-03-10", StartTime: "whenever", EndTime: "later",
			},
			wantStart: "2024-03-10T00:00:00Z",
			wantEnd:   "2024-03-10T00:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := ProjectEvent(tt.event, Owner{UserID: uuid.New()})
			if event.Start.DateTime != tt.wantStart {
				t.Errorf("start = %q, want %q", event.Start.DateTime, tt.wantStart)
			}
			if event.End.DateTime != tt.wantEnd {
				t.Errorf("end = %q, want %q", event.End.DateTime, tt.wantEnd)
			}
		})
	}
}
