package router

import (
	"github.com/gin-gonic/gin"

	"intentrelay.app/relay/internal/http/handler"
)

func LeadIntakeRouter(router *gin.RouterGroup, handler *handler.LeadIntakeHandler) {
	router.POST("/intake", handler.Intake)
}

func LeadRouter(router *gin.RouterGroup, handler *handler.LeadHandler) {
	router.GET("/:id", handler.Get)
}

func SchemaRouter(router *gin.RouterGroup, handler *handler.SchemaHandler) {
	router.GET("/:name", handler.Get)
}
