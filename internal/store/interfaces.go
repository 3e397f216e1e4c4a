package store

import (
	"context"
	"errors"

	"intentrelay.app/relay/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// LeadStore persists leads. Leads are insert-only; the dedupe key makes the insert
// idempotent.
type LeadStore interface {
	// CreateOrGet inserts lead, or returns the existing lead with the same dedupe key.
	// created is false when the row already existed.
	CreateOrGet(ctx context.Context, lead *model.Lead) (*model.Lead, bool, error)
	GetByID(ctx context.Context, id int64) (*model.Lead, error)
}

// DealStore persists deal projections, at most one per lead.
type DealStore interface {
	Create(ctx context.Context, deal *model.Deal) (*model.Deal, error)
	GetByLeadID(ctx context.Context, leadID int64) (*model.Deal, error)
}

// IngestionEventStore persists audit events written by the worker.
type IngestionEventStore interface {
	CreateOrGet(ctx context.Context, evt *model.IngestionEvent) (*model.IngestionEvent, bool, error)
	ListByLead(ctx context.Context, leadID int64, limit int32) ([]model.IngestionEvent, error)
}
