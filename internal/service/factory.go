package service

import (
	"log/slog"
	"net/http"

	"intentrelay.app/relay/core/config"
	"intentrelay.app/relay/internal/automation"
	"intentrelay.app/relay/internal/queue"
	"intentrelay.app/relay/internal/store"
)

type Services struct {
	stores     *store.Stores
	leadIngest LeadIngestService
}

// NewServices builds the service graph. The ingest service is shared because it
// tracks in-flight dispatches for shutdown.
func NewServices(stores *store.Stores, txRunner TxRunner, producer queue.Producer, cfg config.Config, httpClient *http.Client) *Services {
	sinks := automation.NewSinks(cfg.Sinks, httpClient)
	for _, s := range sinks {
		slog.Info("automation sink enabled", "sink_kind", s.Kind())
	}

	return &Services{
		stores: stores,
		leadIngest: NewLeadIngestService(
			txRunner,
			automation.NewPlanner(cfg.Sinks),
			automation.NewDispatcher(sinks, cfg.Dispatch.Timeout, nil),
			producer,
			IngestConfig{IdempotencyWindow: cfg.Idempotency.Window},
			nil,
		),
	}
}

func (s *Services) LeadIngest() LeadIngestService {
	return s.leadIngest
}

func (s *Services) Leads() LeadQueryService {
	return NewLeadQueryService(s.stores.Leads(), s.stores.Deals())
}
