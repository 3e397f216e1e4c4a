package automation

import (
	"context"
	"net/http"
)

// WebhookSink forwards the full lead and routing decision to a CRM or automation hub.
type WebhookSink struct {
	client *http.Client
	url    string
}

func NewWebhookSink(url string, client *http.Client) *WebhookSink {
	return &WebhookSink{client: client, url: url}
}

func (s *WebhookSink) Kind() SinkKind { return SinkWebhook }

func (s *WebhookSink) Send(ctx context.Context, payload Payload) error {
	evt, ok := payload.(WebhookEvent)
	if !ok {
		return unexpectedPayload(SinkWebhook, payload)
	}
	return postJSON(ctx, s.client, SinkWebhook, s.url, evt, nil)
}
