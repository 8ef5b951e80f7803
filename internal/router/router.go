package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ELYASDARK/uhc-admin-api/internal/handler"
	"github.com/ELYASDARK/uhc-admin-api/internal/handler/account"
	promHandler "github.com/ELYASDARK/uhc-admin-api/internal/handler/prometheus"
	"github.com/ELYASDARK/uhc-admin-api/internal/middleware"
)

type Config struct {
	RateLimit rate.Limit
	RateBurst int
	CORS      middleware.CORSConfig
}

type Router struct {
	engine *gin.Engine
}

func New(
	auth *middleware.AuthMiddleware,
	accountH *account.Handler,
	metricsH *promHandler.Handler,
	h *handler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.SetupValidation()

	engine := gin.New()

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(config.CORS),
		limiter.RateLimit(),
		metricsH.Middleware(),
	)

	engine.GET("/health", h.HealthCheck)
	engine.GET("/health/live", h.LivenessCheck)
	engine.GET("/health/ready", h.ReadinessCheck)
	engine.GET("/metrics", metricsH.Handler())

	api := engine.Group("/api/v1")
	api.Use(auth.Session())
	accountH.RegisterRoutes(api.Group("/admin"))

	return &Router{engine: engine}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
