package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"intentrelay.app/relay/common/logger"
	"intentrelay.app/relay/internal/queue"
	"intentrelay.app/relay/internal/store"
)

const errorBackoff = time.Second

type Config struct {
	MaxAttempts int
}

// Worker drains the audit stream into the ingestion_events table.
type Worker struct {
	consumer Consumer
	events   store.IngestionEventStore
	logger   *slog.Logger
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, events store.IngestionEventStore, cfg Config, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Worker{
		consumer:  consumer,
		events:    events,
		logger:    logger,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "relay.worker"})
	w.logger.InfoContext(ctx, "worker started", "max_attempts", w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			w.logger.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				w.logger.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(errorBackoff):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			w.logger.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"event_id", msg.EventID)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage persists one audit event and acks it. Exported for the reclaimer.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	span := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.record_ingestion_event")
	defer span.End()
	ctx = span.Context()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageID: &msg.ID,
		EventID:   &msg.EventID,
		Channel:   logger.Ptr(string(msg.Event.Endpoint)),
		LeadID:    msg.Event.LeadID,
	})
	span.SetAttributes(
		attribute.String("audit.event_id", msg.EventID),
		attribute.Int("audit.attempt", msg.Attempt),
	)

	evt := msg.Event
	saved, created, err := w.events.CreateOrGet(ctx, &evt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("saving ingestion event: %w", err)
	}

	if created {
		w.logger.InfoContext(ctx, "ingestion event saved",
			"rejected", saved.Rejected,
			"action_type", saved.ActionType,
			"attempt", msg.Attempt)
	} else {
		w.logger.DebugContext(ctx, "ingestion event already saved")
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The row exists, so a redelivery is a no-op.
		w.logger.WarnContext(ctx, "failed to ACK message", "error", err)
	}
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		w.logger.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"event_id", msg.EventID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			w.logger.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	w.logger.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"event_id", msg.EventID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		w.logger.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
