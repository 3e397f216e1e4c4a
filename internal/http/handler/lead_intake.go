package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/mapper"
	"intentrelay.app/relay/internal/model"
	"intentrelay.app/relay/internal/service"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type LeadIntakeHandler struct {
	service     service.LeadIngestService
	mapper      *mapper.IntakeMapper
	traceHeader string
	now         func() time.Time
}

func NewLeadIntakeHandler(svc service.LeadIngestService, traceHeader string) *LeadIntakeHandler {
	return &LeadIntakeHandler{
		service:     svc,
		mapper:      mapper.NewIntakeMapper(),
		traceHeader: traceHeader,
		now:         time.Now,
	}
}

func (h *LeadIntakeHandler) Intake(c *gin.Context) {
	ctx := c.Request.Context()
	receivedAt := h.now().UTC()
	traceID := TraceID(c, h.traceHeader)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.IntakeResponse{Message: "failed to read request body"})
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var req dto.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid intake request", "error", err)
		h.service.RecordRejected(ctx, service.AuditEvent{
			ReceivedAt: receivedAt,
			TraceID:    traceID,
			Endpoint:   model.ChannelIntake,
			ActionType: service.ActionFormSubmit,
			Reason:     "invalid request: " + err.Error(),
			Payload:    body,
		})
		c.JSON(http.StatusBadRequest, dto.IntakeResponse{Message: err.Error()})
		return
	}

	params := service.IngestParams{
		Profile:        h.mapper.Map(req, receivedAt),
		TraceID:        traceID,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
		ActionType:     service.ActionFormSubmit,
		Payload:        body,
	}
	if req.Routing != nil {
		params.ClientRouting = &service.ClientRouting{
			Score:    req.Routing.Score,
			Tier:     req.Routing.Tier,
			Route:    req.Routing.Route,
			Priority: req.Routing.Priority,
		}
	}

	result, err := h.service.Ingest(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.IntakeResponse{Message: err.Error()})
		case errors.Is(err, service.ErrPersistence):
			c.JSON(http.StatusInternalServerError, dto.IntakeResponse{Message: service.ErrPersistence.Error()})
		default:
			slog.ErrorContext(ctx, "failed to ingest lead", "error", err)
			c.JSON(http.StatusInternalServerError, dto.IntakeResponse{Message: "failed to ingest lead"})
		}
		return
	}

	message := "lead received"
	if result.Duplicated {
		message = "lead already received"
	}

	c.JSON(http.StatusOK, dto.IntakeResponse{
		Success:    true,
		LeadID:     result.Lead.ID,
		Routing:    &result.Lead.Decision,
		Message:    message,
		Duplicated: result.Duplicated,
	})
}
