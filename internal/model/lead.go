package model

import "time"

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead is the persisted record of one ingestion. It is written once and the
// automation dispatcher never mutates it.
type Lead struct {
	CreatedAt time.Time       `json:"createdAt"`
	Profile   IntentProfile   `json:"profile"`
	Decision  RoutingDecision `json:"routing"`
	DedupeKey string          `json:"-"`
	Status    LeadStatus      `json:"status"`
	ID        int64           `json:"id"`
}
