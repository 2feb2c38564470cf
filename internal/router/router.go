package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pie/internal/config"
	"pie/internal/handler"
	"pie/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *logrus.Logger,
	extractH *handler.ExtractHandler,
	paymentH *handler.PaymentHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	registerRoutes(&r.RouterGroup, extractH, paymentH, healthH)

	// Behind an API gateway stage the same routes are served under the stage prefix.
	if cfg.Server.BasePath != "" {
		registerRoutes(r.Group(cfg.Server.BasePath), extractH, paymentH, healthH)
	}

	return r
}

func registerRoutes(
	g *gin.RouterGroup,
	extractH *handler.ExtractHandler,
	paymentH *handler.PaymentHandler,
	healthH *handler.HealthHandler,
) {
	g.GET("/", healthH.Root)
	g.GET("/healthz", healthH.Liveness)

	api := g.Group("/api")
	api.POST("/extract", extractH.Extract)
	api.POST("/epc", paymentH.EPC)
}
