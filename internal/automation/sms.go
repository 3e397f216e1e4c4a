package automation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"intentrelay.app/relay/core/config"
)

// SMSSink pages the on-call number through a Twilio compatible messages API.
type SMSSink struct {
	client *http.Client
	cfg    config.SMSSinkConfig
}

func NewSMSSink(cfg config.SMSSinkConfig, client *http.Client) *SMSSink {
	return &SMSSink{client: client, cfg: cfg}
}

func (s *SMSSink) Kind() SinkKind { return SinkSMS }

func (s *SMSSink) Send(ctx context.Context, payload Payload) error {
	msg, ok := payload.(SMSMessage)
	if !ok {
		return unexpectedPayload(SinkSMS, payload)
	}

	form := url.Values{}
	form.Set("To", s.cfg.To)
	form.Set("From", s.cfg.From)
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.PathEscape(s.cfg.AccountSID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	return do(s.client, SinkSMS, req)
}
