package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"intentrelay.app/relay/core/db/sqlc"
	"intentrelay.app/relay/internal/model"
)

type leadStore struct {
	queries *sqlc.Queries
}

func newLeadStore(queries *sqlc.Queries) LeadStore {
	return &leadStore{queries: queries}
}

func (s *leadStore) CreateOrGet(ctx context.Context, lead *model.Lead) (*model.Lead, bool, error) {
	params, err := toUpsertLeadParams(lead)
	if err != nil {
		return nil, false, err
	}

	row, err := s.queries.UpsertLead(ctx, params)
	if err != nil {
		return nil, false, err
	}

	out, err := toLeadModel(row)
	if err != nil {
		return nil, false, err
	}
	created := row.ID == lead.ID
	return out, created, nil
}

func (s *leadStore) GetByID(ctx context.Context, id int64) (*model.Lead, error) {
	row, err := s.queries.GetLead(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toLeadModel(row)
}

func toUpsertLeadParams(lead *model.Lead) (sqlc.UpsertLeadParams, error) {
	p := lead.Profile
	d := lead.Decision

	var signals []byte
	if p.IntentSignals != nil {
		b, err := json.Marshal(p.IntentSignals)
		if err != nil {
			return sqlc.UpsertLeadParams{}, fmt.Errorf("encoding intent signals: %w", err)
		}
		signals = b
	}

	status := lead.Status
	if status == "" {
		status = model.LeadStatusNew
	}

	return sqlc.UpsertLeadParams{
		ID:               lead.ID,
		DedupeKey:        lead.DedupeKey,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Company:          p.Company,
		Domain:           p.Domain,
		Industry:         string(p.Industry),
		Role:             string(p.Role),
		TeamSize:         string(p.TeamSize),
		FundingStage:     string(p.FundingStage),
		Budget:           string(p.Budget),
		Urgency:          string(p.Urgency),
		Timeline:         p.Timeline,
		UseCase:          p.UseCase,
		IntentSignals:    signals,
		Source:           p.Source,
		Channel:          string(p.Channel),
		Score:            int32(d.Score),
		Tier:             string(d.Tier),
		Route:            string(d.Route),
		Priority:         string(d.Priority),
		FollowUp:         d.FollowUp,
		Reasons:          nonNil(d.Reasons),
		TriggeredActions: nonNil(d.TriggeredActions),
		Status:           string(status),
		ReceivedAt:       toPgTimestamptz(p.ReceivedAt),
	}, nil
}

func toLeadModel(row sqlc.Lead) (*model.Lead, error) {
	var signals *model.IntentSignals
	if len(row.IntentSignals) > 0 {
		signals = &model.IntentSignals{}
		if err := json.Unmarshal(row.IntentSignals, signals); err != nil {
			return nil, fmt.Errorf("decoding intent signals for lead %d: %w", row.ID, err)
		}
	}

	return &model.Lead{
		ID:        row.ID,
		DedupeKey: row.DedupeKey,
		Status:    model.LeadStatus(row.Status),
		CreatedAt: row.CreatedAt.Time,
		Profile: model.IntentProfile{
			ReceivedAt:    row.ReceivedAt.Time,
			IntentSignals: signals,
			Email:         row.Email,
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			Company:       row.Company,
			Domain:        row.Domain,
			Timeline:      row.Timeline,
			UseCase:       row.UseCase,
			Source:        row.Source,
			Channel:       model.Channel(row.Channel),
			Industry:      model.Industry(row.Industry),
			Role:          model.Role(row.Role),
			Urgency:       model.Urgency(row.Urgency),
			TeamSize:      model.TeamSize(row.TeamSize),
			FundingStage:  model.FundingStage(row.FundingStage),
			Budget:        model.Budget(row.Budget),
		},
		Decision: model.RoutingDecision{
			Score:            int(row.Score),
			Tier:             model.Tier(row.Tier),
			Route:            model.Route(row.Route),
			Priority:         model.Priority(row.Priority),
			FollowUp:         row.FollowUp,
			Reasons:          row.Reasons,
			TriggeredActions: row.TriggeredActions,
		},
	}, nil
}
