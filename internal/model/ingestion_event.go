package model

import (
	"encoding/json"
	"time"
)

// IngestionEvent is the audit record of a raw inbound call. It is written
// asynchronously by the worker and never read on the request path.
type IngestionEvent struct {
	ReceivedAt           time.Time       `json:"receivedAt"`
	CreatedAt            time.Time       `json:"createdAt"`
	LeadID               *int64          `json:"leadId,omitempty"`
	Score                *int            `json:"score,omitempty"`
	Tier                 *Tier           `json:"tier,omitempty"`
	RejectReason         *string         `json:"rejectReason,omitempty"`
	Payload              json.RawMessage `json:"payload,omitempty"`
	EventID              string          `json:"eventId"`
	Endpoint             Channel         `json:"endpoint"`
	Source               string          `json:"source"`
	ActionType           string          `json:"actionType,omitempty"`
	ID                   int64           `json:"id"`
	AutomationsAttempted int             `json:"automationsAttempted"`
	AutomationsSucceeded int             `json:"automationsSucceeded"`
	AutomationsFailed    int             `json:"automationsFailed"`
	Rejected             bool            `json:"rejected"`
}
