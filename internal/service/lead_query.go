package service

import (
	"context"
	"errors"
	"fmt"

	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/store"
)

type LeadView struct {
	Lead *model.Lead
	Deal *model.Deal
}

type LeadQueryService interface {
	Get(ctx context.Context, id int64) (*LeadView, error)
}

type leadQueryService struct {
	leads store.LeadStore
	deals store.DealStore
}

func NewLeadQueryService(leads store.LeadStore, deals store.DealStore) LeadQueryService {
	return &leadQueryService{leads: leads, deals: deals}
}

// Get returns the lead and, when one was projected, its deal.
func (s *leadQueryService) Get(ctx context.Context, id int64) (*LeadView, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("fetching lead: %w", err)
	}

	deal, err := s.deals.GetByLeadID(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("fetching deal: %w", err)
	}

	return &LeadView{Lead: lead, Deal: deal}, nil
}
