package automation_test

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"intentrelay.app/relay/core/config"
	"intentrelay.app/relay/internal/automation"
	"intentrelay.app/relay/internal/model"
)

func allSinks() config.SinkConfig {
	return config.SinkConfig{
		SlackWebhookURL:   "https://hooks.slack.test/T/B/X",
		GenericWebhookURL: "https://crm.test/hooks/leads",
		Email: config.EmailSinkConfig{
			APIKey:    "sg-key",
			FromEmail: "sales@relay.test",
			Templates: map[string]string{
				"instant-demo":   "d-demo",
				"sales-call":     "d-call",
				"email-sequence": "d-seq",
			},
		},
		SMS: config.SMSSinkConfig{
			AccountSID: "AC1",
			AuthToken:  "tok",
			From:       "+15550000000",
			To:         "+15551111111",
		},
	}
}

func kinds(tasks []automation.Task) []automation.SinkKind {
	out := make([]automation.SinkKind, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Kind)
	}
	return out
}

var _ = Describe("Planner", func() {
	It("plans every channel for a hot, immediate lead", func() {
		tasks := automation.NewPlanner(allSinks()).Plan(hotLead())

		Expect(kinds(tasks)).To(Equal([]automation.SinkKind{
			automation.SinkSlack, automation.SinkSMS, automation.SinkEmail, automation.SinkWebhook,
		}))
		for _, t := range tasks {
			Expect(t.Action).NotTo(BeEmpty())
			Expect(t.Reason).NotTo(BeEmpty())
		}
	})

	It("creates no tasks when nothing is configured", func() {
		Expect(automation.NewPlanner(config.SinkConfig{}).Plan(hotLead())).To(BeEmpty())
	})

	It("skips slack and sms for a warm lead", func() {
		lead := hotLead()
		lead.Decision.Tier = model.TierWarm
		lead.Decision.Route = model.RouteSalesCall
		lead.Decision.Priority = model.PriorityMedium

		tasks := automation.NewPlanner(allSinks()).Plan(lead)

		Expect(kinds(tasks)).To(Equal([]automation.SinkKind{automation.SinkEmail, automation.SinkWebhook}))
		email := tasks[0].Payload.(automation.EmailMessage)
		Expect(email.TemplateID).To(Equal("d-call"))
	})

	It("skips sms when urgency is not immediate", func() {
		lead := hotLead()
		lead.Profile.Urgency = model.UrgencyThisMonth

		Expect(kinds(automation.NewPlanner(allSinks()).Plan(lead))).NotTo(ContainElement(automation.SinkSMS))
	})

	It("skips email when the lead has no address", func() {
		lead := hotLead()
		lead.Profile.Email = ""

		Expect(kinds(automation.NewPlanner(allSinks()).Plan(lead))).NotTo(ContainElement(automation.SinkEmail))
	})

	It("falls back to the default template for routes without one", func() {
		cfg := allSinks()
		cfg.Email.Templates = map[string]string{config.DefaultTemplateKey: "d-default"}

		tasks := automation.NewPlanner(cfg).Plan(hotLead())

		var email automation.EmailMessage
		for _, t := range tasks {
			if t.Kind == automation.SinkEmail {
				email = t.Payload.(automation.EmailMessage)
			}
		}
		Expect(email.TemplateID).To(Equal("d-default"))
		Expect(email.ToEmail).To(Equal("ada@analytical.io"))
		Expect(email.TemplateData).To(HaveKeyWithValue("route", "instant-demo"))
	})

	It("builds a slack message with a header and fields", func() {
		tasks := automation.NewPlanner(allSinks()).Plan(hotLead())
		msg := tasks[0].Payload.(automation.SlackMessage)

		Expect(msg.Header).To(ContainSubstring("Ada Lovelace"))
		Expect(msg.Fields).To(ContainElement(automation.SlackField{Label: "Score", Value: "185"}))
	})

	It("keeps sms bodies within one segment", func() {
		lead := hotLead()
		lead.Profile.Company = strings.Repeat("x", 300)

		tasks := automation.NewPlanner(allSinks()).Plan(lead)
		Expect(len(tasks[1].Payload.(automation.SMSMessage).Body)).To(BeNumerically("<=", 160))
	})

	It("cuts long sms bodies on a rune boundary", func() {
		lead := hotLead()
		lead.Profile.FirstName = "x" + strings.Repeat("é", 100)
		lead.Profile.Company = strings.Repeat("ü", 80)

		body := automation.NewPlanner(allSinks()).Plan(lead)[1].Payload.(automation.SMSMessage).Body
		Expect(utf8.ValidString(body)).To(BeTrue())
		Expect(utf8.RuneCountInString(body)).To(Equal(160))
		Expect(body).To(HaveSuffix("..."))
	})

	It("wraps the lead and routing in the webhook event", func() {
		tasks := automation.NewPlanner(allSinks()).Plan(hotLead())
		evt := tasks[3].Payload.(automation.WebhookEvent)

		Expect(evt.Event).To(Equal(automation.EventLeadQualified))
		Expect(evt.Lead.ID).To(Equal(int64(42)))
		Expect(evt.Routing.Tier).To(Equal(model.TierHot))
		Expect(evt.Timestamp).NotTo(BeZero())
	})
})
