package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"sync"
	"time"

	"intentrelay.app/relay/common/id"
	"intentrelay.app/relay/common/logger"
	"intentrelay.app/relay/internal/automation"
	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/projector"
	"intentrelay.app/relay/internal/queue"
	"intentrelay.app/relay/internal/scoring"
)

const (
	ActionFormSubmit = "form_submit"
	auditTimeout     = 3 * time.Second
)

// ClientRouting is routing computed by the submitting client. It is never trusted.
type ClientRouting struct {
	Score    *int
	Tier     string
	Route    string
	Priority string
}

type IngestParams struct {
	Profile        model.IntentProfile
	ClientRouting  *ClientRouting
	TraceID        *string
	IdempotencyKey string
	ActionType     string
	Payload        json.RawMessage
}

// IngestResult is returned once the lead is persisted. Dispatch continues in the
// background; Dispatched receives its outcomes exactly once.
type IngestResult struct {
	Lead       *model.Lead
	Deal       *model.Deal
	Dispatched <-chan []automation.TaskOutcome
	EventID    string
	DedupeKey  string
	Planned    int
	Duplicated bool
}

// AuditEvent describes an inbound call that produced no lead.
type AuditEvent struct {
	ReceivedAt time.Time
	TraceID    *string
	Endpoint   model.Channel
	Source     string
	ActionType string
	Reason     string
	Payload    json.RawMessage
}

type LeadIngestService interface {
	Ingest(ctx context.Context, params IngestParams) (*IngestResult, error)
	// RecordRejected audits a call that failed verification or validation.
	RecordRejected(ctx context.Context, evt AuditEvent) string
	// RecordObserved audits a call that was accepted but carries no lead.
	RecordObserved(ctx context.Context, evt AuditEvent) string
	// Wait blocks until background dispatches and audit writes finish or ctx ends.
	Wait(ctx context.Context) error
}

type Planner interface {
	Plan(lead model.Lead) []automation.Task
}

type Dispatcher interface {
	Dispatch(ctx context.Context, tasks []automation.Task) []automation.TaskOutcome
}

type IngestConfig struct {
	Now               func() time.Time
	IdempotencyWindow time.Duration
}

type leadIngestService struct {
	txRunner   TxRunner
	planner    Planner
	dispatcher Dispatcher
	producer   queue.Producer
	logger     *slog.Logger
	cfg        IngestConfig
	inflight   sync.WaitGroup
}

// NewLeadIngestService wires the ingestion pipeline. producer may be nil, in which
// case audit events are only logged.
func NewLeadIngestService(txRunner TxRunner, planner Planner, dispatcher Dispatcher, producer queue.Producer, cfg IngestConfig, logger *slog.Logger) LeadIngestService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &leadIngestService{
		txRunner:   txRunner,
		planner:    planner,
		dispatcher: dispatcher,
		producer:   producer,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *leadIngestService) Ingest(ctx context.Context, params IngestParams) (*IngestResult, error) {
	profile := params.Profile
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Source:    logger.Ptr(profile.Source),
		Channel:   logger.Ptr(string(profile.Channel)),
		Component: "relay.service.lead_ingest",
	})

	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	now := s.cfg.Now().UTC()
	if profile.ReceivedAt.IsZero() {
		profile.ReceivedAt = now
	}

	decision := scoring.Evaluate(profile)
	if params.ClientRouting != nil {
		s.checkClientRouting(ctx, params.ClientRouting, &decision)
	}

	dedupeKey := DedupeKey(params.IdempotencyKey, profile, s.cfg.IdempotencyWindow)
	lead, deal := projector.Project(profile, decision, now)
	lead.ID = id.New()
	lead.DedupeKey = dedupeKey

	eventID := id.NewEventID()
	ctx = logger.WithLogFields(ctx, logger.LogFields{EventID: &eventID})

	actionType := params.ActionType
	if actionType == "" {
		actionType = ActionFormSubmit
	}
	audit := model.IngestionEvent{
		EventID:    eventID,
		Endpoint:   profile.Channel,
		Source:     profile.Source,
		ActionType: actionType,
		Payload:    auditPayload(params.Payload),
		ReceivedAt: profile.ReceivedAt,
	}

	var (
		saved   *model.Lead
		created bool
	)
	if err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		var err error
		saved, created, err = sp.Leads().CreateOrGet(ctx, &lead)
		if err != nil {
			return fmt.Errorf("creating lead: %w", err)
		}
		return nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "lead persistence failed", "error", err, "dedupe_key", dedupeKey)
		audit.Rejected = true
		audit.RejectReason = logger.Ptr("persistence failed")
		s.publish(ctx, audit, params.TraceID)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{LeadID: &saved.ID})
	audit.LeadID = &saved.ID
	audit.Score = &saved.Decision.Score
	audit.Tier = &saved.Decision.Tier

	if !created {
		s.logger.InfoContext(ctx, "duplicate lead deduped", "dedupe_key", dedupeKey)
		audit.ActionType = actionType + ":duplicate"
		s.publish(ctx, audit, params.TraceID)

		done := make(chan []automation.TaskOutcome, 1)
		done <- nil
		return &IngestResult{
			Lead:       saved,
			EventID:    eventID,
			DedupeKey:  dedupeKey,
			Duplicated: true,
			Dispatched: done,
		}, nil
	}

	savedDeal := s.saveDeal(ctx, saved.ID, deal)

	tasks := s.planner.Plan(*saved)
	result := *saved
	result.Decision = saved.Decision.Clone()
	for _, t := range tasks {
		result.Decision.AddAction(t.Action)
	}

	s.logger.InfoContext(ctx, "lead ingested",
		"score", result.Decision.Score,
		"tier", result.Decision.Tier,
		"route", result.Decision.Route,
		"tasks", len(tasks))

	done := make(chan []automation.TaskOutcome, 1)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		dctx := context.WithoutCancel(ctx)
		outcomes := s.dispatcher.Dispatch(dctx, tasks)

		summary := automation.Summarize(outcomes)
		audit.AutomationsAttempted = summary.Attempted
		audit.AutomationsSucceeded = summary.Succeeded
		audit.AutomationsFailed = summary.Failed
		s.logger.InfoContext(dctx, "automation dispatch finished",
			"attempted", summary.Attempted,
			"succeeded", summary.Succeeded,
			"failed", summary.Failed)

		s.publish(dctx, audit, params.TraceID)
		done <- outcomes
	}()

	return &IngestResult{
		Lead:       &result,
		Deal:       savedDeal,
		EventID:    eventID,
		DedupeKey:  dedupeKey,
		Planned:    len(tasks),
		Dispatched: done,
	}, nil
}

// saveDeal runs in its own transaction after the lead commits. A failure leaves the
// lead without a deal.
func (s *leadIngestService) saveDeal(ctx context.Context, leadID int64, deal model.Deal) *model.Deal {
	deal.ID = id.New()
	deal.LeadID = leadID

	var saved *model.Deal
	err := s.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		var err error
		saved, err = sp.Deals().Create(ctx, &deal)
		return err
	})
	if err != nil {
		s.logger.WarnContext(ctx, "deal projection not saved", "error", err)
		return nil
	}
	return saved
}

func (s *leadIngestService) checkClientRouting(ctx context.Context, client *ClientRouting, d *model.RoutingDecision) {
	mismatch := (client.Tier != "" && client.Tier != string(d.Tier)) ||
		(client.Route != "" && client.Route != string(d.Route)) ||
		(client.Priority != "" && client.Priority != string(d.Priority)) ||
		(client.Score != nil && *client.Score != d.Score)
	if !mismatch {
		return
	}

	s.logger.WarnContext(ctx, "client routing disagrees with server routing",
		"client_tier", client.Tier,
		"client_route", client.Route,
		"server_tier", d.Tier,
		"server_route", d.Route,
		"server_score", d.Score)
	d.AddAction(fmt.Sprintf("client routing %s/%s ignored", orUnset(client.Tier), orUnset(client.Route)))
}

func (s *leadIngestService) RecordRejected(ctx context.Context, evt AuditEvent) string {
	return s.record(ctx, evt, true)
}

func (s *leadIngestService) RecordObserved(ctx context.Context, evt AuditEvent) string {
	return s.record(ctx, evt, false)
}

func (s *leadIngestService) record(ctx context.Context, evt AuditEvent, rejected bool) string {
	eventID := id.NewEventID()
	receivedAt := evt.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.cfg.Now().UTC()
	}

	audit := model.IngestionEvent{
		EventID:    eventID,
		Endpoint:   evt.Endpoint,
		Source:     evt.Source,
		ActionType: evt.ActionType,
		Payload:    auditPayload(evt.Payload),
		ReceivedAt: receivedAt,
		Rejected:   rejected,
	}
	if evt.Reason != "" {
		audit.RejectReason = &evt.Reason
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EventID:   &eventID,
		Channel:   logger.Ptr(string(evt.Endpoint)),
		Component: "relay.service.lead_ingest",
	})
	if rejected {
		s.logger.WarnContext(ctx, "ingestion rejected", "reason", evt.Reason, "action_type", evt.ActionType)
	} else {
		s.logger.InfoContext(ctx, "ingestion observed", "action_type", evt.ActionType)
	}

	s.publish(ctx, audit, evt.TraceID)
	return eventID
}

// publish writes the audit event without blocking the caller.
func (s *leadIngestService) publish(ctx context.Context, evt model.IngestionEvent, traceID *string) {
	if s.producer == nil {
		return
	}

	evt.ID = id.New()
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
		defer cancel()

		if err := s.producer.Enqueue(pctx, queue.AuditMessage{Event: evt, TraceID: traceID}); err != nil {
			s.logger.ErrorContext(pctx, "audit event not published", "error", err)
		}
	}()
}

func (s *leadIngestService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validateProfile(p model.IntentProfile) error {
	if p.Email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return fmt.Errorf("%w: email %q is invalid", ErrValidation, p.Email)
	}
	if p.Channel == "" {
		return fmt.Errorf("%w: channel is required", ErrValidation)
	}
	return nil
}

// auditPayload keeps the raw body if it is JSON and wraps it as a JSON string otherwise.
func auditPayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return quoted
}

func orUnset(s string) string {
	if s == "" {
		return "unset"
	}
	return s
}
