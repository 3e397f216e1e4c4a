package store

import (
	"intentrelay.app/relay/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Leads() LeadStore {
	return newLeadStore(s.queries)
}

func (s *Stores) Deals() DealStore {
	return newDealStore(s.queries)
}

func (s *Stores) IngestionEvents() IngestionEventStore {
	return newIngestionEventStore(s.queries)
}
