package app

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/cityhunt-backend/internal/http/middleware"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, mw Middleware) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(log))

	// Public
	router.GET("/healthcheck", handlerset.Health.HealthCheck)
	api := router.Group("/api")
	api.POST("/session", handlerset.Session.CreateSession)

	// Protected
	protected := api.Group("/")
	protected.Use(mw.Session.RequireSession())
	protected.POST("/authorize", mw.PinLimit.Limit(), handlerset.Hunt.Authorize)
	protected.GET("/stages/:id", handlerset.Hunt.GetStageContent)
	protected.POST("/stages/:id/validate", handlerset.Hunt.ValidateAnswer)
	protected.GET("/progress", handlerset.Hunt.GetGroupProgress)

	return router
}
