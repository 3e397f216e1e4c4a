package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/service"
)

type LeadHandler struct {
	service service.LeadQueryService
}

func NewLeadHandler(svc service.LeadQueryService) *LeadHandler {
	return &LeadHandler{service: svc}
}

func (h *LeadHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}

	view, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to fetch lead", "error", err, "lead_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch lead"})
		return
	}

	c.JSON(http.StatusOK, dto.LeadResponse{Lead: *view.Lead, Deal: view.Deal})
}
