package services

// SyncOutcome records the result of one best-effort provider side effect
// (calendar mirror create/update). Callers aggregate outcomes instead of
// treating a failed sync as a failed request.
type SyncOutcome struct {
	Provider  string `json:"provider"`
	Attempted bool   `json:"attempted"`
	Succeeded bool   `json:"succeeded"`
	EventID   string `json:"eventId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func syncSkipped(provider string) SyncOutcome {
	return SyncOutcome{Provider: provider}
}

func syncFailed(provider string, err error) SyncOutcome {
	return SyncOutcome{Provider: provider, Attempted: true, Error: err.Error()}
}

func syncOK(provider, eventID string) SyncOutcome {
	return SyncOutcome{Provider: provider, Attempted: true, Succeeded: true, EventID: eventID}
}
