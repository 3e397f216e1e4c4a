package automation

import (
	"context"
	"net/http"
)

// SlackSink posts block-kit messages to an incoming webhook.
type SlackSink struct {
	client     *http.Client
	webhookURL string
}

func NewSlackSink(webhookURL string, client *http.Client) *SlackSink {
	return &SlackSink{client: client, webhookURL: webhookURL}
}

func (s *SlackSink) Kind() SinkKind { return SinkSlack }

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackBlock struct {
	Text   *slackText  `json:"text,omitempty"`
	Type   string      `json:"type"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackRequest struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks"`
}

func (s *SlackSink) Send(ctx context.Context, payload Payload) error {
	msg, ok := payload.(SlackMessage)
	if !ok {
		return unexpectedPayload(SinkSlack, payload)
	}
	return postJSON(ctx, s.client, SinkSlack, s.webhookURL, buildSlackRequest(msg), nil)
}

func buildSlackRequest(msg SlackMessage) slackRequest {
	fields := make([]slackText, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, slackText{Type: "mrkdwn", Text: "*" + f.Label + ":*\n" + f.Value})
	}

	blocks := []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: msg.Header}},
	}
	if msg.Text != "" {
		blocks = append(blocks, slackBlock{Type: "section", Text: &slackText{Type: "mrkdwn", Text: msg.Text}})
	}
	// Slack caps a section at 10 fields.
	for start := 0; start < len(fields); start += 10 {
		end := min(start+10, len(fields))
		blocks = append(blocks, slackBlock{Type: "section", Fields: fields[start:end]})
	}

	return slackRequest{Text: msg.Header, Blocks: blocks}
}
