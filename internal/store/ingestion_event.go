package store

import (
	"context"
	"encoding/json"

	"intentrelay.app/relay/core/db/sqlc"
	"intentrelay.app/relay/internal/model"
)

type ingestionEventStore struct {
	queries *sqlc.Queries
}

func newIngestionEventStore(queries *sqlc.Queries) IngestionEventStore {
	return &ingestionEventStore{queries: queries}
}

// CreateOrGet is keyed on event_id so a redelivered stream message does not produce a
// second audit row.
func (s *ingestionEventStore) CreateOrGet(ctx context.Context, evt *model.IngestionEvent) (*model.IngestionEvent, bool, error) {
	row, err := s.queries.UpsertIngestionEvent(ctx, sqlc.UpsertIngestionEventParams{
		ID:                   evt.ID,
		EventID:              evt.EventID,
		Endpoint:             string(evt.Endpoint),
		Source:               evt.Source,
		ActionType:           evt.ActionType,
		LeadID:               evt.LeadID,
		Score:                intPtrToInt32(evt.Score),
		Tier:                 tierPtrToString(evt.Tier),
		AutomationsAttempted: int32(evt.AutomationsAttempted),
		AutomationsSucceeded: int32(evt.AutomationsSucceeded),
		AutomationsFailed:    int32(evt.AutomationsFailed),
		Rejected:             evt.Rejected,
		RejectReason:         evt.RejectReason,
		Payload:              payloadBytes(evt.Payload),
		ReceivedAt:           toPgTimestamptz(evt.ReceivedAt),
	})
	if err != nil {
		return nil, false, err
	}
	created := row.ID == evt.ID
	return toIngestionEventModel(row), created, nil
}

func (s *ingestionEventStore) ListByLead(ctx context.Context, leadID int64, limit int32) ([]model.IngestionEvent, error) {
	rows, err := s.queries.ListIngestionEventsByLead(ctx, sqlc.ListIngestionEventsByLeadParams{
		LeadID: &leadID,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.IngestionEvent, 0, len(rows))
	for _, row := range rows {
		result = append(result, *toIngestionEventModel(row))
	}
	return result, nil
}

func toIngestionEventModel(row sqlc.IngestionEvent) *model.IngestionEvent {
	evt := &model.IngestionEvent{
		ID:                   row.ID,
		EventID:              row.EventID,
		Endpoint:             model.Channel(row.Endpoint),
		Source:               row.Source,
		ActionType:           row.ActionType,
		LeadID:               row.LeadID,
		AutomationsAttempted: int(row.AutomationsAttempted),
		AutomationsSucceeded: int(row.AutomationsSucceeded),
		AutomationsFailed:    int(row.AutomationsFailed),
		Rejected:             row.Rejected,
		RejectReason:         row.RejectReason,
		Payload:              json.RawMessage(row.Payload),
		ReceivedAt:           row.ReceivedAt.Time,
		CreatedAt:            row.CreatedAt.Time,
	}
	if row.Score != nil {
		score := int(*row.Score)
		evt.Score = &score
	}
	if row.Tier != nil {
		tier := model.Tier(*row.Tier)
		evt.Tier = &tier
	}
	return evt
}

// payloadBytes stores invalid or empty JSON as null so the JSONB insert cannot fail.
func payloadBytes(p json.RawMessage) []byte {
	if len(p) == 0 || !json.Valid(p) {
		return []byte("null")
	}
	return p
}
