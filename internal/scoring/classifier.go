package scoring

import "intentrelay.app/relay/internal/model"

const (
	HotThreshold  = 80
	WarmThreshold = 50
)

type tierRule struct {
	minScore int
	tier     model.Tier
	route    model.Route
	priority model.Priority
	followUp string
}

// Evaluated top-down; first match wins. The last rule is the catch-all.
var tierRules = []tierRule{
	{minScore: HotThreshold, tier: model.TierHot, route: model.RouteInstantDemo, priority: model.PriorityHigh, followUp: "book within 2 hours"},
	{minScore: WarmThreshold, tier: model.TierWarm, route: model.RouteSalesCall, priority: model.PriorityMedium, followUp: "schedule within 24 hours"},
}

var nurtureRule = tierRule{tier: model.TierNurture, route: model.RouteEmailSequence, priority: model.PriorityLow, followUp: "add to nurture sequence"}

// Classify maps a raw score to a routing decision. Urgency does not influence the
// tier; it is accepted so that the SMS escalation decision can be made from the
// same inputs (see RoutingDecision.EscalatesToSMS).
func Classify(score int, urgency model.Urgency) model.RoutingDecision {
	rule := nurtureRule
	for _, r := range tierRules {
		if score >= r.minScore {
			rule = r
			break
		}
	}

	decision := model.RoutingDecision{
		Score:            score,
		Tier:             rule.tier,
		Route:            rule.route,
		Priority:         rule.priority,
		FollowUp:         rule.followUp,
		Reasons:          []string{},
		TriggeredActions: []string{},
	}
	if decision.EscalatesToSMS(urgency) {
		decision.AddAction("sms escalation eligible: high priority with immediate urgency")
	}
	return decision
}
