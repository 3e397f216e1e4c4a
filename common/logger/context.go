package logger

import (
	"context"
	"unicode/utf8"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and services enrich the context once, and every slog call made with that
// context carries lead_id, event_id and friends without repeating them.
type LogFields struct {
	LeadID    *int64  // Persisted lead ID
	EventID   *string // Ingestion event ID returned to webhook callers
	MessageID *string // Redis stream message ID
	Source    *string // Normalized source (form slug or extension id)
	Channel   *string // intake | extension | payment
	SinkKind  *string // Automation sink (slack, email, sms, webhook)
	Component string  // Component name, e.g. "relay.automation.dispatcher"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.LeadID != nil {
		result.LeadID = new.LeadID
	}
	if new.EventID != nil {
		result.EventID = new.EventID
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.Source != nil {
		result.Source = new.Source
	}
	if new.Channel != nil {
		result.Channel = new.Channel
	}
	if new.SinkKind != nil {
		result.SinkKind = new.SinkKind
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{LeadID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Used for raw webhook bodies and upstream error responses.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
