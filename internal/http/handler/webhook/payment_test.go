package webhook_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"intentrelay.app/relay/internal/http/handler/webhook"
	"intentrelay.app/relay/internal/model"
)

var _ = Describe("PaymentWebhookHandler", func() {
	const (
		secret = "whsec"
		body   = `{"id":"evt_1","type":"invoice.paid","customerEmail":"ada@analytical.io","created":"2026-03-02T15:04:05Z"}`
	)

	var (
		router *gin.Engine
		svc    *mockLeadIngestService
	)

	post := func(payload, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhook/payment", bytes.NewBufferString(payload))
		if signature != "" {
			req.Header.Set(webhook.SignatureHeader, signature)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockLeadIngestService{}
		router.POST("/webhook/payment", webhook.NewPaymentWebhookHandler(svc, secret, "").HandleEvent)
	})

	It("records a verified event", func() {
		w := post(body, webhook.SignatureValue(secret, []byte(body)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"received":true}`))
		Expect(svc.observed).To(HaveLen(1))
		Expect(svc.observed[0].Endpoint).To(Equal(model.ChannelPayment))
		Expect(svc.observed[0].ActionType).To(Equal("invoice.paid"))
		Expect(svc.params).To(BeEmpty())
	})

	It("records a bad signature as rejected and still answers 200", func() {
		w := post(body, "sha256=deadbeef")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"received":true}`))
		Expect(svc.observed).To(BeEmpty())
		Expect(svc.rejected).To(HaveLen(1))
		Expect(svc.rejected[0].Reason).To(Equal(webhook.ErrSignatureMismatch.Error()))
	})

	It("records an unparseable body as rejected", func() {
		w := post(`not json`, webhook.SignatureValue(secret, []byte(`not json`)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(svc.rejected).To(HaveLen(1))
		Expect(svc.rejected[0].Reason).To(Equal("invalid payload"))
	})
})
