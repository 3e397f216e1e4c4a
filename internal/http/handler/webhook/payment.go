package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/http/handler"
	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/service"
)

const paymentSource = "payment-provider"

// PaymentWebhookHandler records payment callbacks for audit. Payments never create
// leads, and the provider always gets a 200.
type PaymentWebhookHandler struct {
	service     service.LeadIngestService
	secret      string
	traceHeader string
	now         func() time.Time
}

func NewPaymentWebhookHandler(svc service.LeadIngestService, secret, traceHeader string) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		service:     svc,
		secret:      secret,
		traceHeader: traceHeader,
		now:         time.Now,
	}
}

func (h *PaymentWebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	audit := service.AuditEvent{
		ReceivedAt: h.now().UTC(),
		TraceID:    handler.TraceID(c, h.traceHeader),
		Endpoint:   model.ChannelPayment,
		Source:     paymentSource,
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		audit.Reason = "failed to read request body"
		h.service.RecordRejected(ctx, audit)
		c.JSON(http.StatusOK, dto.PaymentAck{Received: true})
		return
	}
	audit.Payload = body

	if err := VerifySignature(h.secret, body, c.GetHeader(SignatureHeader)); err != nil {
		slog.WarnContext(ctx, "payment webhook signature rejected", "error", err)
		audit.Reason = err.Error()
		h.service.RecordRejected(ctx, audit)
		c.JSON(http.StatusOK, dto.PaymentAck{Received: true})
		return
	}

	var evt dto.PaymentEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		audit.Reason = "invalid payload"
		h.service.RecordRejected(ctx, audit)
		c.JSON(http.StatusOK, dto.PaymentAck{Received: true})
		return
	}

	audit.ActionType = evt.Type
	h.service.RecordObserved(ctx, audit)

	slog.InfoContext(ctx, "payment webhook recorded", "payment_event_id", evt.ID, "type", evt.Type, "created", evt.Created.Time)
	c.JSON(http.StatusOK, dto.PaymentAck{Received: true})
}
