package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"intentrelay.app/relay/core/config"
	"intentrelay.app/relay/internal/automation"
	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/service"
)

func hotProfile() model.IntentProfile {
	return model.IntentProfile{
		Email:        "ada@analytical.io",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Company:      "Analytical Engines",
		Source:       "pricing-page",
		Channel:      model.ChannelIntake,
		Industry:     model.IndustrySaaS,
		Role:         model.RoleCEO,
		Urgency:      model.UrgencyImmediate,
		TeamSize:     model.TeamSize51To200,
		FundingStage: model.FundingSeriesB,
		Budget:       model.Budget50kTo100k,
		ReceivedAt:   time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC),
	}
}

func allSinksConfig() config.SinkConfig {
	return config.SinkConfig{
		SlackWebhookURL:   "https://hooks.slack.test/x",
		GenericWebhookURL: "https://crm.test/hook",
		Email: config.EmailSinkConfig{
			APIKey:    "k",
			FromEmail: "sales@relay.test",
			Templates: map[string]string{config.DefaultTemplateKey: "d-default"},
		},
		SMS: config.SMSSinkConfig{AccountSID: "AC", AuthToken: "t", From: "+1", To: "+2"},
	}
}

func awaitOutcomes(result *service.IngestResult) []automation.TaskOutcome {
	var outcomes []automation.TaskOutcome
	Eventually(result.Dispatched).Should(Receive(&outcomes))
	return outcomes
}

var _ = Describe("LeadIngestService", func() {
	var (
		ctx        context.Context
		svc        service.LeadIngestService
		leads      *mockLeadStore
		deals      *mockDealStore
		txRunner   *mockTxRunner
		planner    service.Planner
		dispatcher service.Dispatcher
		producer   *mockProducer
		now        time.Time
	)

	build := func() {
		svc = service.NewLeadIngestService(txRunner, planner, dispatcher, producer, service.IngestConfig{
			IdempotencyWindow: 15 * time.Minute,
			Now:               func() time.Time { return now },
		}, nil)
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 2, 15, 5, 0, 0, time.UTC)
		leads = &mockLeadStore{}
		deals = &mockDealStore{}
		producer = &mockProducer{}
		planner = automation.NewPlanner(allSinksConfig())
		dispatcher = &mockDispatcher{}
		txRunner = &mockTxRunner{
			withTxFn: func(ctx context.Context, fn func(stores service.StoreProvider) error) error {
				return fn(&mockStoreProvider{leads: leads, deals: deals})
			},
		}
		build()
	})

	AfterEach(func() {
		Expect(svc.Wait(ctx)).To(Succeed())
	})

	Describe("Ingest", func() {
		It("scores, persists and dispatches a hot lead", func() {
			result, err := svc.Ingest(ctx, service.IngestParams{
				Profile: hotProfile(),
				Payload: json.RawMessage(`{"leadData":{}}`),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Duplicated).To(BeFalse())
			Expect(result.EventID).NotTo(BeEmpty())
			Expect(result.Lead.ID).NotTo(BeZero())
			Expect(result.Lead.Status).To(Equal(model.LeadStatusNew))
			Expect(result.Lead.Decision.Score).To(Equal(185))
			Expect(result.Lead.Decision.Tier).To(Equal(model.TierHot))
			Expect(result.Lead.Decision.Route).To(Equal(model.RouteInstantDemo))
			Expect(result.Lead.Decision.Priority).To(Equal(model.PriorityHigh))

			Expect(result.Deal).NotTo(BeNil())
			Expect(result.Deal.LeadID).To(Equal(result.Lead.ID))
			Expect(result.Deal.Stage).To(Equal(model.DealStageDemo))
			Expect(result.Deal.EstimatedValue).To(Equal(int64(900000)))

			Expect(result.Planned).To(Equal(4))
			Expect(awaitOutcomes(result)).To(HaveLen(4))

			Expect(leads.capturedLead.DedupeKey).To(Equal(result.DedupeKey))
		})

		It("records one triggered action per planned task without touching the stored lead", func() {
			result, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})
			Expect(err).NotTo(HaveOccurred())
			awaitOutcomes(result)

			Expect(result.Lead.Decision.TriggeredActions).To(ContainElements(
				"slack alert sent to sales channel",
				"sms page sent to on-call rep",
				"lead forwarded to outbound webhook",
			))
			Expect(leads.capturedLead.Decision.TriggeredActions).NotTo(ContainElement("slack alert sent to sales channel"))
		})

		It("publishes an audit event with automation counts", func() {
			result, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})
			Expect(err).NotTo(HaveOccurred())
			awaitOutcomes(result)
			Expect(svc.Wait(ctx)).To(Succeed())

			events := producer.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].EventID).To(Equal(result.EventID))
			Expect(*events[0].LeadID).To(Equal(result.Lead.ID))
			Expect(events[0].AutomationsAttempted).To(Equal(4))
			Expect(events[0].AutomationsSucceeded).To(Equal(4))
			Expect(events[0].ActionType).To(Equal(service.ActionFormSubmit))
		})

		It("still succeeds when one of four sinks fails", func() {
			dispatcher = automation.NewDispatcher([]automation.Sink{
				&mockSink{kind: automation.SinkSlack},
				&mockSink{kind: automation.SinkSMS, sendFn: func(context.Context, automation.Payload) error {
					return &automation.SinkError{Kind: automation.SinkSMS, StatusCode: 500}
				}},
				&mockSink{kind: automation.SinkEmail},
				&mockSink{kind: automation.SinkWebhook},
			}, time.Second, nil)
			build()

			result, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})
			Expect(err).NotTo(HaveOccurred())

			summary := automation.Summarize(awaitOutcomes(result))
			Expect(summary).To(Equal(automation.Summary{Attempted: 4, Succeeded: 3, Failed: 1}))

			Expect(svc.Wait(ctx)).To(Succeed())
			Expect(producer.Events()[0].AutomationsFailed).To(Equal(1))
		})

		It("keeps dispatching after the request context is cancelled", func() {
			reqCtx, cancel := context.WithCancel(ctx)
			released := make(chan struct{})
			var dispatchErr error
			dispatcher = &mockDispatcher{dispatchFn: func(dctx context.Context, tasks []automation.Task) []automation.TaskOutcome {
				<-released
				dispatchErr = dctx.Err()
				return nil
			}}
			build()

			result, err := svc.Ingest(reqCtx, service.IngestParams{Profile: hotProfile()})
			Expect(err).NotTo(HaveOccurred())
			cancel()
			close(released)

			awaitOutcomes(result)
			Expect(dispatchErr).NotTo(HaveOccurred())
		})

		Context("validation", func() {
			It("rejects a missing email", func() {
				p := hotProfile()
				p.Email = ""

				_, err := svc.Ingest(ctx, service.IngestParams{Profile: p})
				Expect(errors.Is(err, service.ErrValidation)).To(BeTrue())
				Expect(leads.capturedLead).To(BeNil())
			})

			It("rejects a malformed email", func() {
				p := hotProfile()
				p.Email = "not-an-email"

				_, err := svc.Ingest(ctx, service.IngestParams{Profile: p})
				Expect(errors.Is(err, service.ErrValidation)).To(BeTrue())
			})
		})

		Context("when the lead cannot be saved", func() {
			BeforeEach(func() {
				leads.createOrGetFn = func(context.Context, *model.Lead) (*model.Lead, bool, error) {
					return nil, false, errors.New("connection refused")
				}
			})

			It("returns a persistence error and dispatches nothing", func() {
				d := &mockDispatcher{}
				dispatcher = d
				build()

				_, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})

				Expect(errors.Is(err, service.ErrPersistence)).To(BeTrue())
				Expect(err.Error()).To(ContainSubstring("connection refused"))
				Expect(d.Calls()).To(BeZero())
				Expect(deals.createCalls).To(BeZero())
			})

			It("audits the failure as rejected", func() {
				_, _ = svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})
				Expect(svc.Wait(ctx)).To(Succeed())

				events := producer.Events()
				Expect(events).To(HaveLen(1))
				Expect(events[0].Rejected).To(BeTrue())
			})
		})

		It("treats a failed deal write as non-fatal", func() {
			deals.createFn = func(context.Context, *model.Deal) (*model.Deal, error) {
				return nil, errors.New("deal table locked")
			}

			result, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Deal).To(BeNil())
			Expect(result.Lead).NotTo(BeNil())
			Expect(awaitOutcomes(result)).To(HaveLen(4))
		})

		Context("when the dedupe key was already seen", func() {
			var existing *model.Lead

			BeforeEach(func() {
				existing = &model.Lead{ID: 7, Status: model.LeadStatusNew, Decision: model.RoutingDecision{Score: 185, Tier: model.TierHot}}
				leads.createOrGetFn = func(context.Context, *model.Lead) (*model.Lead, bool, error) {
					return existing, false, nil
				}
			})

			It("returns the existing lead without a deal or dispatch", func() {
				d := &mockDispatcher{}
				dispatcher = d
				build()

				result, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})

				Expect(err).NotTo(HaveOccurred())
				Expect(result.Duplicated).To(BeTrue())
				Expect(result.Lead.ID).To(Equal(int64(7)))
				Expect(result.Deal).To(BeNil())
				Expect(result.Planned).To(BeZero())
				Expect(deals.createCalls).To(BeZero())

				var outcomes []automation.TaskOutcome
				Expect(result.Dispatched).To(Receive(&outcomes))
				Expect(outcomes).To(BeEmpty())
				Expect(d.Calls()).To(BeZero())
			})
		})

		It("uses the same dedupe key for a retried submission", func() {
			first, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})
			Expect(err).NotTo(HaveOccurred())
			second, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})
			Expect(err).NotTo(HaveOccurred())

			Expect(second.DedupeKey).To(Equal(first.DedupeKey))
			awaitOutcomes(first)
			awaitOutcomes(second)
		})

		It("ignores client-submitted routing and records the disagreement", func() {
			score := 10
			result, err := svc.Ingest(ctx, service.IngestParams{
				Profile:       hotProfile(),
				ClientRouting: &service.ClientRouting{Tier: "NURTURE", Route: "email-sequence", Score: &score},
			})
			Expect(err).NotTo(HaveOccurred())
			awaitOutcomes(result)

			Expect(result.Lead.Decision.Tier).To(Equal(model.TierHot))
			Expect(result.Lead.Decision.TriggeredActions).To(ContainElement("client routing NURTURE/email-sequence ignored"))
		})

		It("stamps the receive time when the profile has none", func() {
			p := hotProfile()
			p.ReceivedAt = time.Time{}

			result, err := svc.Ingest(ctx, service.IngestParams{Profile: p})
			Expect(err).NotTo(HaveOccurred())
			awaitOutcomes(result)

			Expect(leads.capturedLead.Profile.ReceivedAt).To(Equal(now))
		})
	})

	Describe("RecordRejected", func() {
		It("publishes a rejected audit event and returns its id", func() {
			eventID := svc.RecordRejected(ctx, service.AuditEvent{
				Endpoint: model.ChannelExtension,
				Reason:   "signature mismatch",
				Payload:  json.RawMessage(`not json`),
			})
			Expect(svc.Wait(ctx)).To(Succeed())

			events := producer.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].EventID).To(Equal(eventID))
			Expect(events[0].Rejected).To(BeTrue())
			Expect(*events[0].RejectReason).To(Equal("signature mismatch"))
			Expect(string(events[0].Payload)).To(MatchJSON(`"not json"`))
			Expect(events[0].ReceivedAt).To(Equal(now))
		})
	})

	Describe("RecordObserved", func() {
		It("publishes an accepted audit event", func() {
			svc.RecordObserved(ctx, service.AuditEvent{Endpoint: model.ChannelExtension, ActionType: "visit"})
			Expect(svc.Wait(ctx)).To(Succeed())

			events := producer.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Rejected).To(BeFalse())
			Expect(events[0].ActionType).To(Equal("visit"))
		})

		It("is a no-op without a producer", func() {
			svc = service.NewLeadIngestService(txRunner, planner, dispatcher, nil, service.IngestConfig{}, nil)
			Expect(svc.RecordObserved(ctx, service.AuditEvent{Endpoint: model.ChannelPayment})).NotTo(BeEmpty())
		})
	})

	Describe("Wait", func() {
		It("gives up when the context ends before dispatch finishes", func() {
			release := make(chan struct{})
			dispatcher = &mockDispatcher{dispatchFn: func(context.Context, []automation.Task) []automation.TaskOutcome {
				<-release
				return nil
			}}
			build()

			_, err := svc.Ingest(ctx, service.IngestParams{Profile: hotProfile()})
			Expect(err).NotTo(HaveOccurred())

			waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			Expect(svc.Wait(waitCtx)).To(MatchError(context.DeadlineExceeded))

			close(release)
		})
	})
})
