// Package router assembles the gin engine and wires the middleware
// chain and route groups.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tracepulse/backend/internal/infrastructure/auth"
	"github.com/tracepulse/backend/internal/infrastructure/config"
	"github.com/tracepulse/backend/internal/infrastructure/logger"
	"github.com/tracepulse/backend/internal/interfaces/http/handler"
	"github.com/tracepulse/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs to register routes
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService

	IngestAuth gin.HandlerFunc

	System *handler.SystemHandler
	Ingest *handler.IngestHandler
	Usage  *handler.UsageHandler
	Tokens *handler.TokenHandler
}

// New builds the gin engine with the full middleware chain and all
// route groups registered.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: deps.Config.Telemetry.ServiceName,
		Enabled:     deps.Config.Telemetry.Enabled,
	}))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = deps.Config.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	registerRoutes(engine, deps)
	return engine
}

func registerRoutes(engine *gin.Engine, deps Dependencies) {
	engine.GET("/health", deps.System.Health)

	// OTLP ingest surface: token auth, no dashboard envelope
	ingest := engine.Group("/v1")
	ingest.Use(middleware.BodyLimit(deps.Config.Ingest.MaxBodySize))
	ingest.Use(deps.IngestAuth)
	{
		ingest.POST("/ingest", deps.Ingest.Export)
	}

	// Dashboard API: JWT auth, envelope responses
	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: deps.JWTService,
		Logger:     deps.Logger,
	}))
	{
		api.GET("/usage", deps.Usage.GetUsage)

		tokens := api.Group("/tokens")
		{
			tokens.POST("", deps.Tokens.Create)
			tokens.GET("", deps.Tokens.List)
			tokens.POST("/:id/revoke", deps.Tokens.Revoke)
		}
	}
}
