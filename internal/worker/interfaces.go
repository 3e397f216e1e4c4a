package worker

import (
	"context"

	"intentrelay.app/relay/internal/queue"
)

// Consumer is the slice of queue.RedisConsumer the worker depends on.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}
