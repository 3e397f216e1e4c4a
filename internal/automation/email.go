package automation

import (
	"context"
	"net/http"
	"strings"

	"intentrelay.app/relay/core/config"
)

// EmailSink sends dynamic-template mail through a SendGrid v3 compatible API.
type EmailSink struct {
	client *http.Client
	cfg    config.EmailSinkConfig
}

func NewEmailSink(cfg config.EmailSinkConfig, client *http.Client) *EmailSink {
	return &EmailSink{client: client, cfg: cfg}
}

func (s *EmailSink) Kind() SinkKind { return SinkEmail }

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type emailPersonalization struct {
	DynamicTemplateData map[string]any `json:"dynamic_template_data,omitempty"`
	To                  []emailAddress `json:"to"`
}

type emailRequest struct {
	From             emailAddress           `json:"from"`
	TemplateID       string                 `json:"template_id"`
	Personalizations []emailPersonalization `json:"personalizations"`
}

func (s *EmailSink) Send(ctx context.Context, payload Payload) error {
	msg, ok := payload.(EmailMessage)
	if !ok {
		return unexpectedPayload(SinkEmail, payload)
	}

	body := emailRequest{
		From:       emailAddress{Email: s.cfg.FromEmail, Name: s.cfg.FromName},
		TemplateID: msg.TemplateID,
		Personalizations: []emailPersonalization{{
			To:                  []emailAddress{{Email: msg.ToEmail, Name: msg.ToName}},
			DynamicTemplateData: msg.TemplateData,
		}},
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	url := strings.TrimRight(s.cfg.BaseURL, "/") + "/v3/mail/send"
	return postJSON(ctx, s.client, SinkEmail, url, body, header)
}
