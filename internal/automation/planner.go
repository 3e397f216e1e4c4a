package automation

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"intentrelay.app/relay/core/config"
	"intentrelay.app/relay/internal/model"
)

const (
	EventLeadQualified = "lead.qualified"
	smsBodyLimit       = 160
)

// Planner decides which notifications a lead is eligible for. It never talks to a
// sink; an unconfigured sink simply yields no task.
type Planner struct {
	cfg config.SinkConfig
	now func() time.Time
}

func NewPlanner(cfg config.SinkConfig) *Planner {
	return &Planner{cfg: cfg, now: time.Now}
}

func (p *Planner) Plan(lead model.Lead) []Task {
	var tasks []Task
	d := lead.Decision
	profile := lead.Profile

	if d.Tier == model.TierHot && p.cfg.SlackEnabled() {
		tasks = append(tasks, Task{
			Kind:    SinkSlack,
			Payload: slackMessage(lead),
			Reason:  "tier HOT",
			Action:  "slack alert sent to sales channel",
		})
	}

	if d.EscalatesToSMS(profile.Urgency) && p.cfg.SMS.Enabled() {
		tasks = append(tasks, Task{
			Kind:    SinkSMS,
			Payload: smsMessage(lead),
			Reason:  "priority HIGH with immediate urgency",
			Action:  "sms page sent to on-call rep",
		})
	}

	if p.cfg.Email.Enabled() && profile.Email != "" {
		if templateID := p.cfg.Email.TemplateFor(string(d.Route)); templateID != "" {
			tasks = append(tasks, Task{
				Kind:    SinkEmail,
				Payload: emailMessage(lead, templateID),
				Reason:  "route " + string(d.Route),
				Action:  fmt.Sprintf("email queued with %s template", d.Route),
			})
		}
	}

	if p.cfg.GenericWebhookEnabled() {
		tasks = append(tasks, Task{
			Kind: SinkWebhook,
			Payload: WebhookEvent{
				Event:     EventLeadQualified,
				Lead:      lead,
				Routing:   d,
				Timestamp: p.now().UTC(),
			},
			Reason: "outbound webhook configured",
			Action: "lead forwarded to outbound webhook",
		})
	}

	return tasks
}

func slackMessage(lead model.Lead) SlackMessage {
	p := lead.Profile
	d := lead.Decision
	return SlackMessage{
		Header: fmt.Sprintf("Hot lead: %s", p.DisplayName()),
		Text:   fmt.Sprintf("%s scored %d. Follow up: %s.", p.DisplayName(), d.Score, d.FollowUp),
		Fields: []SlackField{
			{Label: "Company", Value: orDash(p.Company)},
			{Label: "Email", Value: orDash(p.Email)},
			{Label: "Role", Value: orDash(string(p.Role))},
			{Label: "Industry", Value: orDash(string(p.Industry))},
			{Label: "Score", Value: strconv.Itoa(d.Score)},
			{Label: "Route", Value: string(d.Route)},
			{Label: "Urgency", Value: orDash(string(p.Urgency))},
			{Label: "Budget", Value: orDash(string(p.Budget))},
		},
	}
}

func smsMessage(lead model.Lead) SMSMessage {
	p := lead.Profile
	body := fmt.Sprintf("HOT lead %s (%s) score %d. %s.",
		p.DisplayName(), orDash(p.Company), lead.Decision.Score, lead.Decision.FollowUp)
	return SMSMessage{Body: truncateRunes(body, smsBodyLimit)}
}

// truncateRunes cuts s to at most limit runes, ending in "..." when shortened.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}

func emailMessage(lead model.Lead, templateID string) EmailMessage {
	p := lead.Profile
	d := lead.Decision
	return EmailMessage{
		ToEmail:    p.Email,
		ToName:     p.FullName(),
		TemplateID: templateID,
		TemplateData: map[string]any{
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"company":    p.Company,
			"use_case":   p.UseCase,
			"score":      d.Score,
			"tier":       string(d.Tier),
			"route":      string(d.Route),
			"priority":   string(d.Priority),
			"follow_up":  d.FollowUp,
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
