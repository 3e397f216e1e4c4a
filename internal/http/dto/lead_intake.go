package dto

import "intentrelay.app/relay/internal/model"

type IntakeLeadData struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email" binding:"required,email"`
	Company      string `json:"company"`
	Role         string `json:"role"`
	Industry     string `json:"industry"`
	Urgency      string `json:"urgency"`
	FundingStage string `json:"fundingStage"`
	TeamSize     string `json:"teamSize"`
	UseCase      string `json:"useCase"`
	Budget       string `json:"budget"`
	Timeline     string `json:"timeline"`
}

// ClientRouting is whatever routing the submitting page computed. It is advisory:
// the server always recomputes and only logs disagreements.
type ClientRouting struct {
	Tier     string `json:"tier,omitempty"`
	Route    string `json:"route,omitempty"`
	Priority string `json:"priority,omitempty"`
	Score    *int   `json:"score,omitempty"`
}

type IntakeRequest struct {
	LeadData  IntakeLeadData `json:"leadData" binding:"required"`
	Routing   *ClientRouting `json:"routing,omitempty"`
	Source    string         `json:"source"`
	Timestamp Timestamp      `json:"timestamp"`
}

type IntakeResponse struct {
	Routing    *model.RoutingDecision `json:"routing,omitempty"`
	Message    string                 `json:"message"`
	LeadID     int64                  `json:"leadId,omitempty"`
	Success    bool                   `json:"success"`
	Duplicated bool                   `json:"duplicated,omitempty"`
}
