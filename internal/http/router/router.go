package router

import (
	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/internal/http/handler"
	"intentrelay.app/relay/internal/http/handler/webhook"
	"intentrelay.app/relay/internal/service"
)

type RouterConfig struct {
	TraceHeaderName        string
	ExtensionWebhookSecret string
	PaymentWebhookSecret   string
	Health                 handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", handler.NewHealthHandler(cfg.Health).Check)

	intakeHandler := handler.NewLeadIntakeHandler(services.LeadIngest(), cfg.TraceHeaderName)
	LeadIntakeRouter(router.Group("/leads"), intakeHandler)

	extensionHandler := webhook.NewExtensionWebhookHandler(services.LeadIngest(), cfg.ExtensionWebhookSecret, cfg.TraceHeaderName)
	paymentHandler := webhook.NewPaymentWebhookHandler(services.LeadIngest(), cfg.PaymentWebhookSecret, cfg.TraceHeaderName)
	WebhookRouter(router.Group("/webhook"), extensionHandler, paymentHandler)

	v1 := router.Group("/api/v1")
	{
		LeadRouter(v1.Group("/leads"), handler.NewLeadHandler(services.Leads()))
		SchemaRouter(v1.Group("/schemas"), handler.NewSchemaHandler())
	}
}
