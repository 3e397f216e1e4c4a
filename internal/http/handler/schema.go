package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"intentrelay.app/relay/internal/automation"
	"intentrelay.app/relay/internal/http/dto"
)

// SchemaHandler serves JSON Schemas for inbound bodies and outbound sink payloads.
type SchemaHandler struct {
	schemas map[string]*jsonschema.Schema
}

func NewSchemaHandler() *SchemaHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	return &SchemaHandler{
		schemas: map[string]*jsonschema.Schema{
			"intake":    reflector.Reflect(&dto.IntakeRequest{}),
			"extension": reflector.Reflect(&dto.ExtensionEvent{}),
			"slack":     reflector.Reflect(&automation.SlackMessage{}),
			"email":     reflector.Reflect(&automation.EmailMessage{}),
			"sms":       reflector.Reflect(&automation.SMSMessage{}),
			"webhook":   reflector.Reflect(&automation.WebhookEvent{}),
		},
	}
}

func (h *SchemaHandler) Get(c *gin.Context) {
	schema, ok := h.schemas[c.Param("name")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown schema", "available": h.names()})
		return
	}
	c.JSON(http.StatusOK, schema)
}

func (h *SchemaHandler) names() []string {
	names := make([]string, 0, len(h.schemas))
	for name := range h.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
