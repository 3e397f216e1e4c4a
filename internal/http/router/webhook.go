package router

import (
	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/internal/http/dto"
	"intentrelay.app/relay/internal/http/handler/webhook"
)

// WebhookPanicAcks maps each webhook route to the body it answers with if its
// handler panics.
func WebhookPanicAcks() map[string]any {
	return map[string]any{
		"/webhook/lead-intake": dto.ExtensionEventResponse{Success: false, Message: "event could not be processed"},
		"/webhook/payment":     dto.PaymentAck{Received: true},
	}
}

func WebhookRouter(router *gin.RouterGroup, extension *webhook.ExtensionWebhookHandler, payment *webhook.PaymentWebhookHandler) {
	router.POST("/lead-intake", extension.HandleEvent)
	router.POST("/payment", payment.HandleEvent)
}
