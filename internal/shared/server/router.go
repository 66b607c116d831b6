package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contract-backend/internal/admin"
	authhttp "contract-backend/internal/auth"
	"contract-backend/internal/contracts"
	"contract-backend/internal/services/health"
	"contract-backend/internal/shared/config"
	"contract-backend/internal/shared/metrics"
	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/server/respond"
)

const rateGroupAuth = "AUTH"

// RouterDeps collects the handlers the router mounts.
type RouterDeps struct {
	Config           config.Config
	Authenticator    middleware.Authenticator
	AuthHandler      *authhttp.Handler
	ContractsHandler *contracts.Handler
	AdminHandler     *admin.Handler
	Health           *health.Service
	RateLimiter      *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: func(c *gin.Context) string {
				if strings.HasPrefix(c.FullPath(), "/api/v1/auth/") {
					return rateGroupAuth
				}
				return ""
			},
			Limiter: deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupAuth: {Rate: 1, Burst: 10},
			},
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublicRoutes(api)
	}

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Authenticator))
	registerMeRoutes(authed, cfg.AdminUsername)
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(authed)
	}
	if deps.ContractsHandler != nil {
		deps.ContractsHandler.RegisterRoutes(authed)
	}

	if deps.AdminHandler != nil {
		adminGroup := authed.Group("")
		adminGroup.Use(middleware.RequireAdmin(cfg.AdminUsername))
		deps.AdminHandler.RegisterRoutes(adminGroup)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
