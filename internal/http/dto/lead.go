package dto

import "intentrelay.app/relay/internal/model"

type LeadResponse struct {
	Lead model.Lead  `json:"lead"`
	Deal *model.Deal `json:"deal,omitempty"`
}
