package model

import "time"

type DealStage string

const (
	DealStageDemo          DealStage = "demo"
	DealStageDiscovery     DealStage = "discovery"
	DealStageQualification DealStage = "qualification"
	DealStageProspect      DealStage = "prospect"
)

// Deal is a best-effort projection derived from a lead. Failing to persist it never
// fails the lead write.
type Deal struct {
	ExpectedCloseDate time.Time `json:"expectedCloseDate"`
	CreatedAt         time.Time `json:"createdAt"`
	Stage             DealStage `json:"stage"`
	ID                int64     `json:"id"`
	LeadID            int64     `json:"leadId"`
	EstimatedValue    int64     `json:"estimatedValue"`
	Probability       int       `json:"probability"`
}
