package automation

import (
	"time"

	"intentrelay.app/relay/internal/model"
)

type SinkKind string

const (
	SinkSlack   SinkKind = "slack"
	SinkEmail   SinkKind = "email"
	SinkSMS     SinkKind = "sms"
	SinkWebhook SinkKind = "webhook"
)

// Payload is the stable internal shape handed to a sink. Each sink kind accepts
// exactly one payload type.
type Payload interface {
	sinkKind() SinkKind
}

type SlackField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type SlackMessage struct {
	Header string       `json:"header"`
	Text   string       `json:"text"`
	Fields []SlackField `json:"fields"`
}

type EmailMessage struct {
	TemplateData map[string]any `json:"templateData"`
	ToEmail      string         `json:"toEmail"`
	ToName       string         `json:"toName,omitempty"`
	TemplateID   string         `json:"templateId"`
}

type SMSMessage struct {
	Body string `json:"body"`
}

// WebhookEvent is posted as-is to the generic outbound webhook.
type WebhookEvent struct {
	Timestamp time.Time             `json:"timestamp"`
	Lead      model.Lead            `json:"lead"`
	Routing   model.RoutingDecision `json:"routing"`
	Event     string                `json:"event"`
}

func (SlackMessage) sinkKind() SinkKind { return SinkSlack }
func (EmailMessage) sinkKind() SinkKind { return SinkEmail }
func (SMSMessage) sinkKind() SinkKind   { return SinkSMS }
func (WebhookEvent) sinkKind() SinkKind { return SinkWebhook }

// Task is one eligible notification. Action is the audit string recorded in the
// lead's triggered actions.
type Task struct {
	Payload Payload
	Kind    SinkKind
	Reason  string
	Action  string
}

type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeAbandoned OutcomeStatus = "abandoned"
)

type TaskOutcome struct {
	Err      error         `json:"-"`
	Kind     SinkKind      `json:"kind"`
	Status   OutcomeStatus `json:"status"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"durationNs"`
}

// Summary counts outcomes. Abandoned tasks count as failed.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
}

func Summarize(outcomes []TaskOutcome) Summary {
	s := Summary{Attempted: len(outcomes)}
	for _, o := range outcomes {
		if o.Status == OutcomeSucceeded {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
