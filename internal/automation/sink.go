package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"intentrelay.app/relay/core/config"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

type Sink interface {
	Kind() SinkKind
	Send(ctx context.Context, payload Payload) error
}

// SinkError is returned when a sink answers with a non-2xx status.
type SinkError struct {
	Kind       SinkKind
	Body       string
	StatusCode int
}

func (e *SinkError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s sink returned status %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s sink returned status %d: %s", e.Kind, e.StatusCode, e.Body)
}

// NewSinks builds a sink for every configured channel. A nil client gets a default
// client with a conservative timeout.
func NewSinks(cfg config.SinkConfig, client *http.Client) []Sink {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	var sinks []Sink
	if cfg.SlackEnabled() {
		sinks = append(sinks, NewSlackSink(cfg.SlackWebhookURL, client))
	}
	if cfg.Email.Enabled() {
		sinks = append(sinks, NewEmailSink(cfg.Email, client))
	}
	if cfg.SMS.Enabled() {
		sinks = append(sinks, NewSMSSink(cfg.SMS, client))
	}
	if cfg.GenericWebhookEnabled() {
		sinks = append(sinks, NewWebhookSink(cfg.GenericWebhookURL, client))
	}
	return sinks
}

func unexpectedPayload(kind SinkKind, p Payload) error {
	return fmt.Errorf("%s sink cannot send %T", kind, p)
}

func postJSON(ctx context.Context, client *http.Client, kind SinkKind, url string, body any, header http.Header) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", kind, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	return do(client, kind, req)
}

func do(client *http.Client, kind SinkKind, req *http.Request) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending %s request: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &SinkError{Kind: kind, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
