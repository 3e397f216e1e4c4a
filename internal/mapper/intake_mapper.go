package mapper

import (
	"strings"
	"time"

	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/model"
)

type IntakeMapper struct{}

func NewIntakeMapper() *IntakeMapper {
	return &IntakeMapper{}
}

// Map never fails: unrecognized enum values resolve to the unknown zero value.
func (m *IntakeMapper) Map(req dto.IntakeRequest, receivedAt time.Time) model.IntentProfile {
	data := req.LeadData
	email := normalizeEmail(data.Email)

	profile := model.IntentProfile{
		ReceivedAt:   eventTime(req.Timestamp.Time, receivedAt),
		Email:        email,
		FirstName:    strings.TrimSpace(data.FirstName),
		LastName:     strings.TrimSpace(data.LastName),
		Company:      strings.TrimSpace(data.Company),
		Domain:       emailDomain(email),
		Timeline:     strings.TrimSpace(data.Timeline),
		UseCase:      strings.TrimSpace(data.UseCase),
		Source:       sourceSlug(req.Source, DefaultIntakeSource),
		Channel:      model.ChannelIntake,
		Industry:     model.ParseIndustry(data.Industry),
		Role:         model.ParseRole(data.Role),
		Urgency:      model.ParseUrgency(data.Urgency),
		TeamSize:     model.ParseTeamSize(data.TeamSize),
		FundingStage: model.ParseFundingStage(data.FundingStage),
		Budget:       model.ParseBudget(data.Budget),
	}

	if profile.Urgency == model.UrgencyUnknown {
		profile.Urgency = model.ParseUrgency(profile.Timeline)
	}

	return profile
}
