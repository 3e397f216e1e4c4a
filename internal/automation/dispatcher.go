package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"intentrelay.app/relay/common/logger"
)

const DefaultTimeout = 5 * time.Second

var ErrNoSink = errors.New("no sink registered for task kind")

// Dispatcher fans tasks out to sinks, one goroutine per task, and waits at most
// timeout for them. Sinks never see each other's failures.
type Dispatcher struct {
	sinks   map[SinkKind]Sink
	logger  *slog.Logger
	timeout time.Duration
}

func NewDispatcher(sinks []Sink, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	byKind := make(map[SinkKind]Sink, len(sinks))
	for _, s := range sinks {
		byKind[s.Kind()] = s
	}

	return &Dispatcher{sinks: byKind, logger: logger, timeout: timeout}
}

type indexedOutcome struct {
	outcome TaskOutcome
	idx     int
}

// Dispatch returns one outcome per task, in task order. Tasks still running when the
// budget runs out are reported abandoned; their goroutines see a cancelled context
// and write into a buffered channel nobody reads, so they never block.
func (d *Dispatcher) Dispatch(ctx context.Context, tasks []Task) []TaskOutcome {
	if len(tasks) == 0 {
		return make([]TaskOutcome, 0)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results := make(chan indexedOutcome, len(tasks))
	start := time.Now()

	for i, task := range tasks {
		go func() {
			results <- indexedOutcome{idx: i, outcome: d.run(ctx, task)}
		}()
	}

	return d.collect(ctx, tasks, results, start)
}

// collect gathers results until every task reports or ctx ends. Results already
// buffered when ctx ends still count.
func (d *Dispatcher) collect(ctx context.Context, tasks []Task, results <-chan indexedOutcome, start time.Time) []TaskOutcome {
	outcomes := make([]TaskOutcome, len(tasks))
	done := make([]bool, len(tasks))
	record := func(r indexedOutcome) {
		outcomes[r.idx] = r.outcome
		done[r.idx] = true
	}

	for pending := len(tasks); pending > 0; pending-- {
		select {
		case r := <-results:
			record(r)
		case <-ctx.Done():
			for drained := false; !drained; {
				select {
				case r := <-results:
					record(r)
				default:
					drained = true
				}
			}
			for i, task := range tasks {
				if done[i] {
					continue
				}
				outcomes[i] = TaskOutcome{
					Kind:     task.Kind,
					Status:   OutcomeAbandoned,
					Err:      ctx.Err(),
					Error:    ctx.Err().Error(),
					Duration: time.Since(start),
				}
				d.logger.WarnContext(withSink(ctx, task.Kind), "automation task abandoned",
					"budget", d.timeout)
			}
			return outcomes
		}
	}

	return outcomes
}

func (d *Dispatcher) run(ctx context.Context, task Task) (out TaskOutcome) {
	ctx = withSink(ctx, task.Kind)
	sc := logger.StartSpan(ctx, "automation.dispatch_task", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()
	ctx = sc.Context()
	sc.SetAttributes(attribute.String("sink.kind", string(task.Kind)))

	start := time.Now()
	out = TaskOutcome{Kind: task.Kind}

	defer func() {
		if r := recover(); r != nil {
			out.Err = fmt.Errorf("sink panicked: %v", r)
		}
		out.Duration = time.Since(start)
		if out.Err != nil {
			out.Status = OutcomeFailed
			out.Error = out.Err.Error()
			sc.RecordError(out.Err)
			d.logger.WarnContext(ctx, "automation task failed",
				"error", out.Err,
				"duration_ms", out.Duration.Milliseconds())
			return
		}
		out.Status = OutcomeSucceeded
		d.logger.InfoContext(ctx, "automation task succeeded",
			"reason", task.Reason,
			"duration_ms", out.Duration.Milliseconds())
	}()

	sink, ok := d.sinks[task.Kind]
	if !ok {
		out.Err = fmt.Errorf("%w: %s", ErrNoSink, task.Kind)
		return out
	}

	out.Err = sink.Send(ctx, task.Payload)
	return out
}

func withSink(ctx context.Context, kind SinkKind) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{
		SinkKind:  logger.Ptr(string(kind)),
		Component: "relay.automation.dispatcher",
	})
}
