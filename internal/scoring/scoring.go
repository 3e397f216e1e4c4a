// Package scoring turns an IntentProfile into a qualification score and a routing
// decision. Everything here is pure: no I/O, no clocks, no randomness.
package scoring

import (
	"fmt"

	"intentrelay.app/relay/internal/model"
)

const (
	highValueIndustryPoints = 25
	decisionMakerPoints     = 30
)

var highValueIndustries = map[model.Industry]bool{
	model.IndustryTechnology:        true,
	model.IndustrySaaS:              true,
	model.IndustryFinancialServices: true,
	model.IndustryRealEstate:        true,
	model.IndustryHealthcare:        true,
}

var decisionMakers = map[model.Role]bool{
	model.RoleCEO:          true,
	model.RoleFounder:      true,
	model.RoleCTO:          true,
	model.RoleVPSales:      true,
	model.RoleHeadOfGrowth: true,
	model.RoleDirector:     true,
}

var urgencyPoints = map[model.Urgency]int{
	model.UrgencyImmediate:   40,
	model.UrgencyThisMonth:   25,
	model.UrgencyThisQuarter: 15,
	model.UrgencyNextQuarter: 5,
	model.UrgencyExploring:   5,
}

var teamSizePoints = map[model.TeamSize]int{
	model.TeamSize1To10:     10,
	model.TeamSize11To50:    20,
	model.TeamSize51To200:   30,
	model.TeamSize201To1000: 35,
	model.TeamSize1000Plus:  40,
}

var fundingPoints = map[model.FundingStage]int{
	model.FundingBootstrapped: 15,
	model.FundingSeed:         20,
	model.FundingSeriesA:      30,
	model.FundingSeriesB:      35,
	model.FundingSeriesCPlus:  40,
	model.FundingPublic:       25,
}

// budgetPoints groups buckets into the 50k+ band (+25) and the 10k+ band (+15).
var budgetPoints = map[model.Budget]int{
	model.Budget50kTo100k: 25,
	model.Budget100kPlus:  25,
	model.Budget10kTo25k:  15,
	model.Budget25kTo50k:  15,
}

// Score sums the weight table for p. Unknown values contribute zero and emit no reason.
// The result is not clamped; a fully qualified profile scores well above 100.
func Score(p model.IntentProfile) (int, []string) {
	score := 0
	reasons := make([]string, 0, 6)

	if highValueIndustries[p.Industry] {
		score += highValueIndustryPoints
		reasons = append(reasons, fmt.Sprintf("high-value industry: %s (+%d)", p.Industry, highValueIndustryPoints))
	}
	if decisionMakers[p.Role] {
		score += decisionMakerPoints
		reasons = append(reasons, fmt.Sprintf("decision maker: %s (+%d)", p.Role, decisionMakerPoints))
	}
	if pts, ok := urgencyPoints[p.Urgency]; ok {
		score += pts
		reasons = append(reasons, fmt.Sprintf("urgency %s (+%d)", p.Urgency, pts))
	}
	if pts, ok := teamSizePoints[p.TeamSize]; ok {
		score += pts
		reasons = append(reasons, fmt.Sprintf("team size %s (+%d)", p.TeamSize, pts))
	}
	if pts, ok := fundingPoints[p.FundingStage]; ok {
		score += pts
		reasons = append(reasons, fmt.Sprintf("funding stage %s (+%d)", p.FundingStage, pts))
	}
	if pts, ok := budgetPoints[p.Budget]; ok {
		score += pts
		reasons = append(reasons, fmt.Sprintf("budget %s (+%d)", p.Budget, pts))
	}

	return score, reasons
}

// Evaluate scores and classifies a profile in one step.
func Evaluate(p model.IntentProfile) model.RoutingDecision {
	score, reasons := Score(p)
	decision := Classify(score, p.Urgency)
	decision.Reasons = reasons
	return decision
}
