package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/commercehub/backend/internal/infrastructure/config"
	"github.com/commercehub/backend/internal/infrastructure/logger"
	"github.com/commercehub/backend/internal/interfaces/http/handler"
	"github.com/commercehub/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the route handlers the router wires up
type Handlers struct {
	System     *handler.SystemHandler
	Webhook    *handler.WebhookHandler
	Automation *handler.AutomationHandler
}

// New builds the gin engine with middleware and routes
func New(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", h.System.Health)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/webhooks/:platform", h.Webhook.Receive)

		automations := v1.Group("/automations")
		{
			automations.PUT("/:id", h.Automation.Upsert)
			automations.GET("/:id", h.Automation.Get)
			automations.DELETE("/:id", h.Automation.Delete)
			automations.GET("/:id/runs", h.Automation.ListRuns)
		}
	}

	return engine
}
