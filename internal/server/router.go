// Package server assembles the HTTP router of the booking API.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/wanderlust-cottage/booking-api/config"
	"github.com/wanderlust-cottage/booking-api/internal/handlers"
	"github.com/wanderlust-cottage/booking-api/internal/middleware"
	"github.com/wanderlust-cottage/booking-api/internal/services"
	"github.com/wanderlust-cottage/booking-api/pkg/logger"
	"github.com/wanderlust-cottage/booking-api/pkg/ratelimit"
	"go.uber.org/zap"
)

// Deps are the collaborators the router wires into routes
type Deps struct {
	Config          *config.Config
	InquiryService  services.InquiryServiceInterface
	InquiryLimiter  ratelimit.Limiter
	OpsLimiter      *middleware.TokenBucketLimiter
	ReadinessChecks map[string]handlers.ReadinessCheck
}

// NewRouter builds the gin engine with the full middleware chain
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("Invalid TRUSTED_PROXIES, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil) //nolint:errcheck // nil is always valid
	}

	router.Use(middleware.RecoveryMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.New(corsConfig(cfg)))

	inquiryHandler := handlers.NewInquiryHandler(deps.InquiryService)
	healthHandler := handlers.NewHealthHandler(deps.ReadinessChecks)

	inquiryChain := []gin.HandlerFunc{
		middleware.InquiryRateLimitMiddleware(deps.InquiryLimiter, cfg.RateLimit.Backend),
		middleware.BodySizeLimitMiddleware(cfg.Server.MaxBodyBytes),
		inquiryHandler.SubmitInquiry,
	}

	api := router.Group("/api")
	api.POST("/booking", inquiryChain...)
	api.OPTIONS("/booking", preflight)

	v1 := router.Group("/api/v1")
	v1.POST("/booking", inquiryChain...)
	v1.OPTIONS("/booking", preflight)

	api.GET("/healthcheck", withOpsLimit(deps.OpsLimiter, healthHandler.Healthcheck)...)
	api.GET("/metrics", withOpsLimit(deps.OpsLimiter, gin.WrapH(promhttp.Handler()))...)

	return router
}

func withOpsLimit(limiter *middleware.TokenBucketLimiter, h gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{limiter.Middleware(), h}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		MaxAge:       12 * time.Hour,
	}

	if cfg.AllowAllOrigins() {
		c.AllowAllOrigins = true
		return c
	}

	c.AllowOrigins = cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		c.AllowOrigins = append(c.AllowOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}
	return c
}

// preflight answers an OPTIONS request that carried no Origin header and so
// was not handled by the CORS middleware
func preflight(c *gin.Context) {
	c.Header("Allow", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Status(http.StatusNoContent)
}
