package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"intentrelay.app/relay/core/db/sqlc"
	"intentrelay.app/relay/internal/model"
)

type dealStore struct {
	queries *sqlc.Queries
}

func newDealStore(queries *sqlc.Queries) DealStore {
	return &dealStore{queries: queries}
}

func (s *dealStore) Create(ctx context.Context, deal *model.Deal) (*model.Deal, error) {
	row, err := s.queries.CreateDeal(ctx, sqlc.CreateDealParams{
		ID:                deal.ID,
		LeadID:            deal.LeadID,
		Stage:             string(deal.Stage),
		EstimatedValue:    deal.EstimatedValue,
		Probability:       int32(deal.Probability),
		ExpectedCloseDate: toPgTimestamptz(deal.ExpectedCloseDate),
	})
	if err != nil {
		return nil, err
	}
	return toDealModel(row), nil
}

func (s *dealStore) GetByLeadID(ctx context.Context, leadID int64) (*model.Deal, error) {
	row, err := s.queries.GetDealByLeadID(ctx, leadID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDealModel(row), nil
}

func toDealModel(row sqlc.Deal) *model.Deal {
	return &model.Deal{
		ID:                row.ID,
		LeadID:            row.LeadID,
		Stage:             model.DealStage(row.Stage),
		EstimatedValue:    row.EstimatedValue,
		Probability:       int(row.Probability),
		ExpectedCloseDate: row.ExpectedCloseDate.Time,
		CreatedAt:         row.CreatedAt.Time,
	}
}
