package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dms-backend/internal/documents"
	"dms-backend/internal/services/health"
	"dms-backend/internal/shared/config"
	"dms-backend/internal/shared/metrics"
	"dms-backend/internal/shared/server/middleware"
	"dms-backend/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers the router registers.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	Health          *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Check(c.Request.Context())
		code := http.StatusOK
		if !status.Healthy {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	deps.DocumentHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

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
