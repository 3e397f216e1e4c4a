package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/common/logger"
	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/http/handler"
	"intentrelay.app/relay/internal/mapper"
	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/service"
)

// ExtensionWebhookHandler accepts browser-extension events. Every parseable request
// is acknowledged with 200 so the extension never retries.
type ExtensionWebhookHandler struct {
	service     service.LeadIngestService
	mapper      *mapper.ExtensionMapper
	secret      string
	traceHeader string
	now         func() time.Time
}

func NewExtensionWebhookHandler(svc service.LeadIngestService, secret, traceHeader string) *ExtensionWebhookHandler {
	return &ExtensionWebhookHandler{
		service:     svc,
		mapper:      mapper.NewExtensionMapper(),
		secret:      secret,
		traceHeader: traceHeader,
		now:         time.Now,
	}
}

func (h *ExtensionWebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()
	receivedAt := h.now().UTC()
	traceID := handler.TraceID(c, h.traceHeader)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	audit := service.AuditEvent{
		ReceivedAt: receivedAt,
		TraceID:    traceID,
		Endpoint:   model.ChannelExtension,
		Payload:    body,
	}

	if err := VerifySignature(h.secret, body, c.GetHeader(SignatureHeader)); err != nil {
		slog.WarnContext(ctx, "extension webhook signature rejected", "error", err)
		audit.Reason = err.Error()
		eventID := h.service.RecordRejected(ctx, audit)
		c.JSON(http.StatusOK, dto.ExtensionEventResponse{EventID: eventID, Message: "signature rejected"})
		return
	}

	var evt dto.ExtensionEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		audit.Reason = "invalid payload"
		h.service.RecordRejected(ctx, audit)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	audit.ActionType = evt.ActionType
	audit.Source = evt.ExtensionID

	profile, action, err := h.mapper.Map(evt, receivedAt)
	if err != nil {
		slog.WarnContext(ctx, "unsupported extension action", "action_type", logger.Truncate(evt.ActionType, 64))
		audit.Reason = err.Error()
		eventID := h.service.RecordRejected(ctx, audit)
		c.JSON(http.StatusOK, dto.ExtensionEventResponse{EventID: eventID, Message: "action type not supported"})
		return
	}
	audit.Source = profile.Source

	if !action.ProducesLead() || profile.Email == "" {
		eventID := h.service.RecordObserved(ctx, audit)
		c.JSON(http.StatusOK, dto.ExtensionEventResponse{
			Success: true,
			EventID: eventID,
			Message: "event recorded",
		})
		return
	}

	result, err := h.service.Ingest(ctx, service.IngestParams{
		Profile:    profile,
		TraceID:    traceID,
		ActionType: string(action),
		Payload:    body,
	})
	if err != nil {
		slog.WarnContext(ctx, "extension lead not ingested", "error", err)
		resp := dto.ExtensionEventResponse{Message: "lead not processed"}
		if errors.Is(err, service.ErrValidation) {
			audit.Reason = err.Error()
			resp.EventID = h.service.RecordRejected(ctx, audit)
			resp.Message = "lead rejected"
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	message := "lead received"
	if result.Duplicated {
		message = "lead already received"
	}

	c.JSON(http.StatusOK, dto.ExtensionEventResponse{
		Success:              true,
		EventID:              result.EventID,
		LeadID:               result.Lead.ID,
		AutomationsTriggered: result.Planned,
		Message:              message,
	})
}
