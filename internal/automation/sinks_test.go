package automation_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"intentrelay.app/relay/core/config"
	"intentrelay.app/relay/internal/automation"
)

type capturedRequest struct {
	header http.Header
	path   string
	body   []byte
}

func captureServer(status int) (*httptest.Server, <-chan capturedRequest) {
	reqs := make(chan capturedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs <- capturedRequest{header: r.Header.Clone(), path: r.URL.Path, body: body}
		w.WriteHeader(status)
		_, _ = w.Write([]byte("upstream says no"))
	}))
	return srv, reqs
}

var _ = Describe("Sinks", func() {
	ctx := context.Background()

	Describe("NewSinks", func() {
		It("builds only configured sinks", func() {
			sinks := automation.NewSinks(config.SinkConfig{SlackWebhookURL: "https://hooks.slack.test/x"}, nil)
			Expect(sinks).To(HaveLen(1))
			Expect(sinks[0].Kind()).To(Equal(automation.SinkSlack))
		})

		It("builds all four when fully configured", func() {
			Expect(automation.NewSinks(allSinks(), http.DefaultClient)).To(HaveLen(4))
		})
	})

	Describe("SlackSink", func() {
		It("posts a header block and field sections", func() {
			srv, reqs := captureServer(http.StatusOK)
			defer srv.Close()

			sink := automation.NewSlackSink(srv.URL, srv.Client())
			err := sink.Send(ctx, automation.SlackMessage{
				Header: "Hot lead: Ada",
				Text:   "scored 185",
				Fields: []automation.SlackField{{Label: "Score", Value: "185"}},
			})
			Expect(err).NotTo(HaveOccurred())

			req := <-reqs
			var body struct {
				Text   string `json:"text"`
				Blocks []struct {
					Type string `json:"type"`
					Text *struct {
						Text string `json:"text"`
					} `json:"text"`
					Fields []struct {
						Text string `json:"text"`
					} `json:"fields"`
				} `json:"blocks"`
			}
			Expect(json.Unmarshal(req.body, &body)).To(Succeed())
			Expect(body.Text).To(Equal("Hot lead: Ada"))
			Expect(body.Blocks).To(HaveLen(3))
			Expect(body.Blocks[0].Type).To(Equal("header"))
			Expect(body.Blocks[2].Fields[0].Text).To(Equal("*Score:*\n185"))
		})

		It("returns a SinkError on non-2xx", func() {
			srv, _ := captureServer(http.StatusBadRequest)
			defer srv.Close()

			err := automation.NewSlackSink(srv.URL, srv.Client()).Send(ctx, automation.SlackMessage{Header: "h"})

			var sinkErr *automation.SinkError
			Expect(errors.As(err, &sinkErr)).To(BeTrue())
			Expect(sinkErr.Kind).To(Equal(automation.SinkSlack))
			Expect(sinkErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(sinkErr.Body).To(Equal("upstream says no"))
		})

		It("rejects a payload of the wrong kind", func() {
			err := automation.NewSlackSink("http://unused", http.DefaultClient).Send(ctx, automation.SMSMessage{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("EmailSink", func() {
		It("sends the template id and dynamic data with a bearer key", func() {
			srv, reqs := captureServer(http.StatusAccepted)
			defer srv.Close()

			sink := automation.NewEmailSink(config.EmailSinkConfig{
				APIKey:    "sg-key",
				BaseURL:   srv.URL + "/",
				FromEmail: "sales@relay.test",
				FromName:  "Sales",
			}, srv.Client())

			err := sink.Send(ctx, automation.EmailMessage{
				ToEmail:      "ada@analytical.io",
				ToName:       "Ada Lovelace",
				TemplateID:   "d-demo",
				TemplateData: map[string]any{"score": 185},
			})
			Expect(err).NotTo(HaveOccurred())

			req := <-reqs
			Expect(req.path).To(Equal("/v3/mail/send"))
			Expect(req.header.Get("Authorization")).To(Equal("Bearer sg-key"))

			var body map[string]any
			Expect(json.Unmarshal(req.body, &body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("template_id", "d-demo"))
			p := body["personalizations"].([]any)[0].(map[string]any)
			Expect(p["dynamic_template_data"]).To(HaveKeyWithValue("score", BeNumerically("==", 185)))
		})
	})

	Describe("SMSSink", func() {
		It("form-posts to the on-call number with basic auth", func() {
			srv, reqs := captureServer(http.StatusCreated)
			defer srv.Close()

			sink := automation.NewSMSSink(config.SMSSinkConfig{
				AccountSID: "AC123",
				AuthToken:  "tok",
				From:       "+15550000000",
				To:         "+15551111111",
				BaseURL:    srv.URL,
			}, srv.Client())

			Expect(sink.Send(ctx, automation.SMSMessage{Body: "HOT lead"})).To(Succeed())

			req := <-reqs
			Expect(req.path).To(Equal("/2010-04-01/Accounts/AC123/Messages.json"))
			Expect(req.header.Get("Authorization")).To(HavePrefix("Basic "))

			form, err := url.ParseQuery(string(req.body))
			Expect(err).NotTo(HaveOccurred())
			Expect(form.Get("To")).To(Equal("+15551111111"))
			Expect(form.Get("Body")).To(Equal("HOT lead"))
		})
	})

	Describe("WebhookSink", func() {
		It("posts event, lead, routing and timestamp", func() {
			srv, reqs := captureServer(http.StatusOK)
			defer srv.Close()

			lead := hotLead()
			err := automation.NewWebhookSink(srv.URL, srv.Client()).Send(ctx, automation.WebhookEvent{
				Event:   automation.EventLeadQualified,
				Lead:    lead,
				Routing: lead.Decision,
			})
			Expect(err).NotTo(HaveOccurred())

			var body map[string]any
			Expect(json.Unmarshal((<-reqs).body, &body)).To(Succeed())
			Expect(body).To(HaveKey("event"))
			Expect(body).To(HaveKey("lead"))
			Expect(body).To(HaveKey("routing"))
			Expect(body).To(HaveKey("timestamp"))
		})
	})
})
