package api

import (
	"github.com/gin-gonic/gin"
	"github.com/volumio-labs/volumio-api/internal/api/handlers"
	apimiddleware "github.com/volumio-labs/volumio-api/internal/api/middleware"
	"github.com/volumio-labs/volumio-api/internal/config"
	"github.com/volumio-labs/volumio-api/internal/engine"
	"github.com/volumio-labs/volumio-api/internal/history"
	"github.com/volumio-labs/volumio-api/internal/metrics"
	"github.com/volumio-labs/volumio-api/internal/speech"
)

// Dependencies carries the wired services the routes need.
type Dependencies struct {
	Config      *config.Config
	Engine      *engine.Engine
	Transcriber *speech.Transcriber
	History     *history.Store
	Metrics     *metrics.Client
}

func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.Config)
	router.GET("/health", healthHandler.HealthCheck)

	// API routes v1 (session-scoped)
	sessionStore := apimiddleware.NewSessionStore(deps.Config.SessionSecret)
	v1 := router.Group("/api/v1")
	v1.Use(apimiddleware.Session(sessionStore))
	{
		analyzeHandler := handlers.NewAnalyzeHandler(deps.Engine, deps.Transcriber, deps.History, deps.Metrics)
		v1.POST("/analyze", analyzeHandler.Analyze)
		v1.POST("/analyze/text", analyzeHandler.AnalyzeText)

		replyHandler := handlers.NewReplyHandler(deps.Engine)
		v1.POST("/reply", replyHandler.Reply)
		v1.POST("/reply/stream", replyHandler.ReplyStream)

		historyHandler := handlers.NewHistoryHandler(deps.History)
		v1.GET("/history", historyHandler.GetHistory)
	}

	return router
}
