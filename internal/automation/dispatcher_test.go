package automation_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"intentrelay.app/relay/internal/automation"
)

var _ = Describe("Dispatcher", func() {
	var (
		ctx   context.Context
		tasks []automation.Task
	)

	BeforeEach(func() {
		ctx = context.Background()
		tasks = []automation.Task{
			{Kind: automation.SinkSlack, Payload: automation.SlackMessage{Header: "h"}},
			{Kind: automation.SinkSMS, Payload: automation.SMSMessage{Body: "b"}},
			{Kind: automation.SinkEmail, Payload: automation.EmailMessage{ToEmail: "a@b.c"}},
			{Kind: automation.SinkWebhook, Payload: automation.WebhookEvent{Event: "e"}},
		}
	})

	It("reports outcomes in task order", func() {
		d := automation.NewDispatcher([]automation.Sink{
			&mockSink{kind: automation.SinkWebhook},
			&mockSink{kind: automation.SinkEmail},
			&mockSink{kind: automation.SinkSMS},
			&mockSink{kind: automation.SinkSlack},
		}, time.Second, nil)

		outcomes := d.Dispatch(ctx, tasks)

		Expect(outcomes).To(HaveLen(4))
		for i, o := range outcomes {
			Expect(o.Kind).To(Equal(tasks[i].Kind))
			Expect(o.Status).To(Equal(automation.OutcomeSucceeded))
		}
	})

	It("isolates a failing sink from its siblings", func() {
		var calls atomic.Int32
		ok := func(context.Context, automation.Payload) error {
			calls.Add(1)
			return nil
		}
		d := automation.NewDispatcher([]automation.Sink{
			&mockSink{kind: automation.SinkSlack, sendFn: ok},
			&mockSink{kind: automation.SinkSMS, sendFn: func(context.Context, automation.Payload) error {
				calls.Add(1)
				return &automation.SinkError{Kind: automation.SinkSMS, StatusCode: 503}
			}},
			&mockSink{kind: automation.SinkEmail, sendFn: ok},
			&mockSink{kind: automation.SinkWebhook, sendFn: ok},
		}, time.Second, nil)

		outcomes := d.Dispatch(ctx, tasks)

		Expect(calls.Load()).To(Equal(int32(4)))
		Expect(outcomes[1].Status).To(Equal(automation.OutcomeFailed))
		var sinkErr *automation.SinkError
		Expect(errors.As(outcomes[1].Err, &sinkErr)).To(BeTrue())
		Expect(sinkErr.StatusCode).To(Equal(503))

		summary := automation.Summarize(outcomes)
		Expect(summary).To(Equal(automation.Summary{Attempted: 4, Succeeded: 3, Failed: 1}))
	})

	It("abandons a hanging sink without waiting past the budget", func() {
		release := make(chan struct{})
		defer close(release)

		d := automation.NewDispatcher([]automation.Sink{
			&mockSink{kind: automation.SinkSlack},
			&mockSink{kind: automation.SinkSMS, sendFn: func(context.Context, automation.Payload) error {
				<-release
				return nil
			}},
			&mockSink{kind: automation.SinkEmail},
			&mockSink{kind: automation.SinkWebhook},
		}, 50*time.Millisecond, nil)

		start := time.Now()
		outcomes := d.Dispatch(ctx, tasks)

		Expect(time.Since(start)).To(BeNumerically("<", time.Second))
		Expect(outcomes[1].Status).To(Equal(automation.OutcomeAbandoned))
		Expect(outcomes[1].Err).To(MatchError(context.DeadlineExceeded))
		Expect(outcomes[0].Status).To(Equal(automation.OutcomeSucceeded))
		Expect(outcomes[3].Status).To(Equal(automation.OutcomeSucceeded))
	})

	It("cancels the context seen by a slow sink", func() {
		cancelled := make(chan struct{})
		d := automation.NewDispatcher([]automation.Sink{
			&mockSink{kind: automation.SinkSlack, sendFn: func(ctx context.Context, _ automation.Payload) error {
				<-ctx.Done()
				close(cancelled)
				return ctx.Err()
			}},
		}, 20*time.Millisecond, nil)

		d.Dispatch(ctx, tasks[:1])

		Eventually(cancelled).Should(BeClosed())
	})

	It("recovers a panicking sink into a failed outcome", func() {
		d := automation.NewDispatcher([]automation.Sink{
			&mockSink{kind: automation.SinkSlack, sendFn: func(context.Context, automation.Payload) error {
				panic("boom")
			}},
		}, time.Second, nil)

		outcomes := d.Dispatch(ctx, tasks[:1])

		Expect(outcomes[0].Status).To(Equal(automation.OutcomeFailed))
		Expect(outcomes[0].Error).To(ContainSubstring("boom"))
	})

	It("fails tasks that have no registered sink", func() {
		d := automation.NewDispatcher(nil, time.Second, nil)

		outcomes := d.Dispatch(ctx, tasks[:1])

		Expect(outcomes[0].Err).To(MatchError(automation.ErrNoSink))
	})

	It("returns immediately for no tasks", func() {
		d := automation.NewDispatcher(nil, time.Second, nil)
		Expect(d.Dispatch(ctx, nil)).To(BeEmpty())
	})
})
