package webhook_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/http/handler/webhook"
	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/service"
)

const intentEvent = `{
	"actionType": "intent_detected",
	"domain": "https://www.analytical.io/pricing",
	"extensionId": "Chrome Ext",
	"userData": {"email": "Ada@Analytical.io", "name": "Ada Lovelace", "title": "CEO", "teamSize": 120},
	"intentSignals": {"hiring": 80, "funding": 140},
	"timestamp": 1772463845000
}`

var _ = Describe("ExtensionWebhookHandler", func() {
	var (
		router *gin.Engine
		svc    *mockLeadIngestService
		secret string
	)

	post := func(body string, signature string) (*httptest.ResponseRecorder, dto.ExtensionEventResponse) {
		req := httptest.NewRequest(http.MethodPost, "/webhook/lead-intake", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if signature != "" {
			req.Header.Set(webhook.SignatureHeader, signature)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.ExtensionEventResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		return w, resp
	}

	JustBeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		h := webhook.NewExtensionWebhookHandler(svc, secret, "X-Trace-Id")
		router.POST("/webhook/lead-intake", h.HandleEvent)
	})

	BeforeEach(func() {
		svc = &mockLeadIngestService{}
		secret = ""
	})

	It("ingests a lead-producing action", func() {
		w, resp := post(intentEvent, "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp.Success).To(BeTrue())
		Expect(resp.EventID).To(Equal("evt-lead"))
		Expect(resp.LeadID).To(Equal(int64(101)))
		Expect(resp.AutomationsTriggered).To(Equal(3))

		Expect(svc.params).To(HaveLen(1))
		p := svc.params[0]
		Expect(p.ActionType).To(Equal("intent_detected"))
		Expect(p.Profile.Email).To(Equal("ada@analytical.io"))
		Expect(p.Profile.Domain).To(Equal("analytical.io"))
		Expect(p.Profile.FirstName).To(Equal("Ada"))
		Expect(p.Profile.Role).To(Equal(model.RoleCEO))
		Expect(p.Profile.TeamSize).To(Equal(model.TeamSize51To200))
		Expect(p.Profile.Channel).To(Equal(model.ChannelExtension))
		Expect(p.Profile.Source).To(Equal("chrome-ext"))
		Expect(p.Profile.IntentSignals.Funding).To(Equal(100))
	})

	DescribeTable("records non-lead events as observed",
		func(body string) {
			w, resp := post(body, "")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp.Success).To(BeTrue())
			Expect(resp.EventID).To(Equal("evt-observed"))
			Expect(svc.params).To(BeEmpty())
			Expect(svc.observed).To(HaveLen(1))
			Expect(svc.observed[0].Endpoint).To(Equal(model.ChannelExtension))
		},
		Entry("visit", `{"actionType":"visit","domain":"analytical.io"}`),
		Entry("install", `{"actionType":"install","extensionId":"abc"}`),
		Entry("intent without email", `{"actionType":"intent_detected","domain":"analytical.io"}`),
	)

	It("rejects unknown actions but still answers 200", func() {
		w, resp := post(`{"actionType":"teleport"}`, "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp.Success).To(BeFalse())
		Expect(resp.EventID).To(Equal("evt-rejected"))
		Expect(svc.rejected).To(HaveLen(1))
		Expect(svc.rejected[0].ActionType).To(Equal("teleport"))
	})

	It("answers 400 to unparseable bodies", func() {
		w, _ := post(`{`, "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(svc.rejected).To(HaveLen(1))
	})

	It("acknowledges ingestion failures without leaking them", func() {
		svc.ingestFn = func(context.Context, service.IngestParams) (*service.IngestResult, error) {
			return nil, fmt.Errorf("%w: db down", service.ErrPersistence)
		}

		w, resp := post(intentEvent, "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resp.Success).To(BeFalse())
		Expect(w.Body.String()).NotTo(ContainSubstring("db down"))
	})

	Context("with a webhook secret", func() {
		BeforeEach(func() {
			secret = "s3cret"
		})

		It("accepts a valid signature", func() {
			w, resp := post(intentEvent, webhook.SignatureValue(secret, []byte(intentEvent)))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(resp.Success).To(BeTrue())
			Expect(svc.params).To(HaveLen(1))
		})

		DescribeTable("rejects bad signatures without scoring",
			func(signature, reason string) {
				w, resp := post(intentEvent, signature)

				Expect(w.Code).To(Equal(http.StatusOK))
				Expect(resp.Success).To(BeFalse())
				Expect(svc.params).To(BeEmpty())
				Expect(svc.rejected).To(HaveLen(1))
				Expect(svc.rejected[0].Reason).To(Equal(reason))
			},
			Entry("missing", "", webhook.ErrSignatureMissing.Error()),
			Entry("wrong", "sha256=00ff", webhook.ErrSignatureMismatch.Error()),
		)
	})
})
