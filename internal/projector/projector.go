// Package projector derives the persisted lead and its deal projection from a
// profile and routing decision. It never touches storage; the ingest service
// assigns IDs and persists the results.
package projector

import (
	"math"
	"time"

	"intentrelay.app/relay/internal/model"
)

const (
	defaultDealBase       = 30000
	defaultTeamMultiplier = 1.0
)

var budgetBase = map[model.Budget]int64{
	model.BudgetUnder10k:  45000,
	model.Budget10kTo25k:  105000,
	model.Budget25kTo50k:  225000,
	model.Budget50kTo100k: 450000,
	model.Budget100kPlus:  900000,
}

var teamSizeMultiplier = map[model.TeamSize]float64{
	model.TeamSize1To10:     1,
	model.TeamSize11To50:    1.5,
	model.TeamSize51To200:   2,
	model.TeamSize201To1000: 3,
	model.TeamSize1000Plus:  5,
}

var stageByRoute = map[model.Route]model.DealStage{
	model.RouteInstantDemo:   model.DealStageDemo,
	model.RouteSalesCall:     model.DealStageDiscovery,
	model.RouteEmailSequence: model.DealStageQualification,
	model.RouteNurtureDrip:   model.DealStageProspect,
}

const day = 24 * time.Hour

// Project builds the lead and deal for one ingestion. now anchors the close date.
func Project(p model.IntentProfile, d model.RoutingDecision, now time.Time) (model.Lead, model.Deal) {
	lead := model.Lead{
		Profile:   p,
		Decision:  d.Clone(),
		Status:    model.LeadStatusNew,
		CreatedAt: now,
	}

	deal := model.Deal{
		Stage:             StageFor(d.Route),
		EstimatedValue:    EstimateValue(p.Budget, p.TeamSize),
		Probability:       Probability(d.Score),
		ExpectedCloseDate: CloseDate(d.Tier, p.Urgency, now),
		CreatedAt:         now,
	}

	return lead, deal
}

// EstimateValue multiplies the budget base by the team-size multiplier. Unrecognized
// buckets fall back to a base of 30000 and a multiplier of 1.
func EstimateValue(b model.Budget, ts model.TeamSize) int64 {
	base, ok := budgetBase[b]
	if !ok {
		base = defaultDealBase
	}
	mult, ok := teamSizeMultiplier[ts]
	if !ok {
		mult = defaultTeamMultiplier
	}
	return int64(math.Round(float64(base) * mult))
}

func CloseDate(tier model.Tier, urgency model.Urgency, now time.Time) time.Time {
	switch tier {
	case model.TierHot:
		if urgency == model.UrgencyImmediate {
			return now.Add(7 * day)
		}
		return now.Add(30 * day)
	case model.TierWarm:
		return now.Add(60 * day)
	default:
		return now.Add(90 * day)
	}
}

func Probability(score int) int {
	switch {
	case score >= 80:
		return 75
	case score >= 60:
		return 50
	case score >= 40:
		return 25
	default:
		return 10
	}
}

func StageFor(r model.Route) model.DealStage {
	if stage, ok := stageByRoute[r]; ok {
		return stage
	}
	return model.DealStageProspect
}
