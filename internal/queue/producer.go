package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"intentrelay.app/relay/internal/model"
)

// AuditMessage carries one ingestion event from the server to the worker.
type AuditMessage struct {
	Event   model.IngestionEvent
	TraceID *string
	Attempt int
}

type Producer interface {
	Enqueue(ctx context.Context, msg AuditMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	logger *slog.Logger
	stream string
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, msg AuditMessage) error {
	values, err := auditValues(msg)
	if err != nil {
		return err
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue audit event: %w", err)
	}

	p.logger.DebugContext(ctx, "enqueued ingestion event",
		"event_id", msg.Event.EventID,
		"endpoint", msg.Event.Endpoint,
		"rejected", msg.Event.Rejected)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

func auditValues(msg AuditMessage) (map[string]any, error) {
	attempt := msg.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	body, err := json.Marshal(msg.Event)
	if err != nil {
		return nil, fmt.Errorf("encoding ingestion event %s: %w", msg.Event.EventID, err)
	}

	values := map[string]any{
		"event_id": msg.Event.EventID,
		"endpoint": string(msg.Event.Endpoint),
		"event":    string(body),
		"attempt":  attempt,
	}
	if msg.TraceID != nil && *msg.TraceID != "" {
		values["trace_id"] = *msg.TraceID
	}
	return values, nil
}
