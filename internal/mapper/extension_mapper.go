package mapper

import (
	"fmt"
	"strings"
	"time"

	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/model"
)

type ExtensionMapper struct{}

func NewExtensionMapper() *ExtensionMapper {
	return &ExtensionMapper{}
}

// Map returns an error only for an unrecognized action type. Everything else in the
// event is optional and degrades to unknown values.
func (m *ExtensionMapper) Map(evt dto.ExtensionEvent, receivedAt time.Time) (model.IntentProfile, ActionType, error) {
	action, err := ParseActionType(evt.ActionType)
	if err != nil {
		return model.IntentProfile{}, "", err
	}

	user := evt.UserData
	email := normalizeEmail(evt.Email)
	if email == "" {
		email = normalizeEmail(stringField(user, "email"))
	}

	domain := normalizeDomain(evt.Domain)
	if domain == "" {
		domain = emailDomain(email)
	}

	firstName := stringField(user, "firstName", "first_name")
	lastName := stringField(user, "lastName", "last_name")
	if firstName == "" && lastName == "" {
		firstName, lastName = splitName(stringField(user, "name", "fullName"))
	}

	company := stringField(user, "company", "companyName", "organization")
	if company == "" {
		company = domain
	}

	timeline := stringField(user, "timeline")
	profile := model.IntentProfile{
		ReceivedAt:    eventTime(evt.Timestamp.Time, receivedAt),
		IntentSignals: mapSignals(evt.IntentSignals),
		Email:         email,
		FirstName:     firstName,
		LastName:      lastName,
		Company:       company,
		Domain:        domain,
		Timeline:      timeline,
		UseCase:       stringField(user, "useCase", "use_case"),
		Source:        sourceSlug(evt.ExtensionID, DefaultExtensionSource),
		Channel:       model.ChannelExtension,
		Industry:      model.ParseIndustry(stringField(user, "industry")),
		Role:          model.ParseRole(stringField(user, "role", "title", "jobTitle")),
		Urgency:       model.ParseUrgency(stringField(user, "urgency")),
		TeamSize:      model.ParseTeamSize(stringField(user, "teamSize", "team_size", "companySize")),
		FundingStage:  model.ParseFundingStage(stringField(user, "fundingStage", "funding_stage")),
		Budget:        model.ParseBudget(stringField(user, "budget")),
	}

	if profile.Urgency == model.UrgencyUnknown {
		profile.Urgency = model.ParseUrgency(timeline)
	}

	return profile, action, nil
}

func mapSignals(in *dto.ExtensionIntentSignals) *model.IntentSignals {
	if in == nil {
		return nil
	}

	var sources []string
	for _, s := range in.Sources {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}

	return &model.IntentSignals{
		Sources:    sources,
		Hiring:     clampSignal(in.Hiring),
		Funding:    clampSignal(in.Funding),
		Expansion:  clampSignal(in.Expansion),
		TechChange: clampSignal(in.TechChange),
	}
}

// stringField returns the first non-empty value among keys. Numbers are formatted so
// that a teamSize of 250 still reaches the parser.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		var s string
		switch v := raw.(type) {
		case string:
			s = v
		case float64:
			s = fmt.Sprintf("%g", v)
		case bool:
			continue
		default:
			s = fmt.Sprint(v)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
