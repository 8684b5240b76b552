package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicpulse/civicpulse/internal/interfaces/http/middleware"
	"github.com/civicpulse/civicpulse/internal/interfaces/http/routes"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
	"github.com/civicpulse/civicpulse/internal/shared/version"
)

const healthCheckTimeout = 2 * time.Second

// SetupRoutes installs the global middleware chain and every route group.
func (c *Container) SetupRoutes() {
	utils.RegisterGinValidations()

	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.Metrics(c.metrics))

	c.engine.GET("/health", c.healthCheck)
	c.engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))

	routes.SetupComplaintRoutes(c.engine, &routes.ComplaintRouteConfig{
		ComplaintHandler: c.hdlrs.complaintHandler,
		AuthMiddleware:   c.authMiddleware,
		RateLimiter:      c.rateLimiter,
		CreatePerMinute:  c.cfg.RateLimit.CreatePerMinute,
		UpvotePerMinute:  c.cfg.RateLimit.UpvotePerMinute,
	})
}

// healthCheck reports database reachability. Redis only backs rate limiting,
// so its state is reported without failing the check.
func (c *Container) healthCheck(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := gin.H{"status": "ok", "database": "ok", "version": version.String()}
	code := http.StatusOK

	sqlDB, err := c.db.DB()
	if err == nil {
		err = sqlDB.PingContext(reqCtx)
	}
	if err != nil {
		c.log.Warnw("health check: database unreachable", "error", err)
		status["status"] = "degraded"
		status["database"] = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if c.redis != nil {
		if err := c.redis.Ping(reqCtx).Err(); err != nil {
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	} else {
		status["redis"] = "disabled"
	}

	ctx.JSON(code, status)
}
