package model

type Tier string

const (
	TierHot     Tier = "HOT"
	TierWarm    Tier = "WARM"
	TierNurture Tier = "NURTURE"
)

type Route string

const (
	RouteInstantDemo   Route = "instant-demo"
	RouteSalesCall     Route = "sales-call"
	RouteEmailSequence Route = "email-sequence"
	// RouteNurtureDrip is never produced by score classification. It exists so that
	// operators can reassign a lead and still get a matching email template.
	RouteNurtureDrip Route = "nurture-drip"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// RoutingDecision is the output of classification. Tier, Route and Priority are a
// pure function of Score. Reasons and TriggeredActions are audit text only.
type RoutingDecision struct {
	Reasons          []string `json:"reasons"`
	TriggeredActions []string `json:"triggeredActions"`
	Tier             Tier     `json:"tier"`
	Route            Route    `json:"route"`
	Priority         Priority `json:"priority"`
	FollowUp         string   `json:"followUp"`
	Score            int      `json:"score"`
}

// AddAction appends an audit string. The slice is never read for control flow.
func (d *RoutingDecision) AddAction(action string) {
	d.TriggeredActions = append(d.TriggeredActions, action)
}

// Clone returns a copy whose slices can be appended to without aliasing d.
func (d RoutingDecision) Clone() RoutingDecision {
	out := d
	out.Reasons = append([]string(nil), d.Reasons...)
	out.TriggeredActions = append([]string(nil), d.TriggeredActions...)
	return out
}

// EscalatesToSMS reports whether the decision qualifies for an SMS page.
func (d RoutingDecision) EscalatesToSMS(urgency Urgency) bool {
	return d.Priority == PriorityHigh && urgency == UrgencyImmediate
}
