package planner

// EventTime wraps a single RFC3339 timestamp the way calendar clients expect.
type EventTime struct {
	DateTime string `json:"dateTime"`
}

// CalendarEvent is the synthetic, never-persisted projection every source is
// normalized into: Dockly goals/todos/notes/events and external provider
// events all render through this one shape. Identity is derived from the
// source row ("goal_<id>") and is only as stable as that row's id.
type CalendarEvent struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	Start        EventTime `json:"start"`
	End          EventTime `json:"end"`
	Type         string    `json:"type"`   // goal, todo, note, event, external
	Source       string    `json:"source"` // dockly, google, outlook
	SourceEmail  string    `json:"source_email"`
	Provider     string    `json:"provider"` // dockly, google, outlook
	AccountColor string    `json:"account_color"`
	UserID       string    `json:"user_id"`
}

const (
	ProviderDockly = "dockly"

	// DefaultColor is the fallback for Dockly virtual accounts without a
	// stored member color.
	DefaultColor = "#0033FF"
)

// Palette cycles across external accounts that have no matching family
// member color.
var Palette = []string{
	"#FF5733", "#33B5FF", "#33FF77", "#FF33A8", "#FFC133",
	"#8D33FF", "#33FFF0", "#FF8633", "#3366FF", "#FF3333",
}
