package mapper

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"intentrelay.app/relay/common"
)

// ActionType is what the browser extension observed.
type ActionType string

const (
	ActionVisit             ActionType = "visit"
	ActionInstall           ActionType = "install"
	ActionIntentDetected    ActionType = "intent_detected"
	ActionContactExtracted  ActionType = "contact_extracted"
	ActionOutreachTriggered ActionType = "outreach_triggered"
)

var knownActions = map[ActionType]bool{
	ActionVisit:             true,
	ActionInstall:           true,
	ActionIntentDetected:    true,
	ActionContactExtracted:  true,
	ActionOutreachTriggered: true,
}

const (
	DefaultIntakeSource    = "intake-form"
	DefaultExtensionSource = "browser-extension"
	maxSignal              = 100

	// MaxClockSkew bounds how far a caller-supplied timestamp may sit from the
	// server receive time before it is ignored.
	MaxClockSkew = 365 * 24 * time.Hour
)

func ParseActionType(raw string) (ActionType, error) {
	action := ActionType(strings.ToLower(strings.TrimSpace(raw)))
	if !knownActions[action] {
		return "", fmt.Errorf("unknown extension action type: %q", raw)
	}
	return action, nil
}

// ProducesLead reports whether the action can carry enough identity to become a lead.
// The caller still requires an email.
func (a ActionType) ProducesLead() bool {
	return a == ActionIntentDetected || a == ActionContactExtracted
}

// eventTime returns the submitted time when it is set and plausible, otherwise the
// receive time.
func eventTime(submitted, receivedAt time.Time) time.Time {
	receivedAt = receivedAt.UTC()
	if submitted.IsZero() {
		return receivedAt
	}
	if d := submitted.Sub(receivedAt); d > MaxClockSkew || d < -MaxClockSkew {
		return receivedAt
	}
	return submitted.UTC()
}

func sourceSlug(raw, fallback string) string {
	slug, err := common.Slugify(raw, fallback)
	if err != nil {
		return fallback
	}
	return slug
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizeDomain reduces "https://www.Acme.io/pricing" to "acme.io".
func normalizeDomain(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			raw = u.Host
		}
	}
	if i := strings.IndexAny(raw, "/?#"); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.LastIndex(raw, ":"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimPrefix(raw, "www.")
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return normalizeDomain(email[at+1:])
}

func clampSignal(v float64) int {
	switch {
	case v != v, v <= 0:
		return 0
	case v >= maxSignal:
		return maxSignal
	default:
		return int(v + 0.5)
	}
}
