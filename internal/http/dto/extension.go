package dto

type ExtensionIntentSignals struct {
	Sources    []string `json:"sources,omitempty"`
	Hiring     float64  `json:"hiring"`
	Funding    float64  `json:"funding"`
	Expansion  float64  `json:"expansion"`
	TechChange float64  `json:"techChange"`
}

// ExtensionEvent is posted by the browser extension. Everything except actionType
// is optional; userData is free-form and only known keys are read.
type ExtensionEvent struct {
	UserData      map[string]any          `json:"userData,omitempty"`
	IntentSignals *ExtensionIntentSignals `json:"intentSignals,omitempty"`
	Email         string                  `json:"email,omitempty"`
	Domain        string                  `json:"domain"`
	ActionType    string                  `json:"actionType"`
	ExtensionID   string                  `json:"extensionId,omitempty"`
	UserID        string                  `json:"userId,omitempty"`
	Timestamp     Timestamp               `json:"timestamp"`
}

type ExtensionEventResponse struct {
	EventID              string `json:"eventId"`
	Message              string `json:"message"`
	LeadID               int64  `json:"leadId,omitempty"`
	AutomationsTriggered int    `json:"automationsTriggered"`
	Success              bool   `json:"success"`
}
