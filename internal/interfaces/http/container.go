package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/civicpulse/civicpulse/internal/application/complaint/enrichment"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/domain/shared/events"
	"github.com/civicpulse/civicpulse/internal/infrastructure/auth"
	"github.com/civicpulse/civicpulse/internal/infrastructure/config"
	"github.com/civicpulse/civicpulse/internal/infrastructure/scheduler"
	"github.com/civicpulse/civicpulse/internal/infrastructure/telemetry"
	"github.com/civicpulse/civicpulse/internal/interfaces/http/middleware"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases,
// handlers and background services, and wires them together. Start and
// Shutdown drive the background pieces.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  redis.UniversalClient

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	jwtSvc  *auth.JWTService
	metrics *telemetry.Metrics
	txMgr   *db.TransactionManager
	triager *complaint.Triager

	// Background services
	dispatcher       events.EventDispatcher
	enrichment       *enrichment.Handler
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires every component. redisClient may be nil, in which case
// rate limiting is disabled.
func NewContainer(gdb *gorm.DB, redisClient redis.UniversalClient, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	c.initInfrastructure()

	if err := c.initTriage(); err != nil {
		return nil, err
	}

	c.ucs = c.newUseCases()
	c.hdlrs = c.newHandlers()

	if err := c.initBackground(); err != nil {
		return nil, err
	}

	return c, nil
}

// Engine returns the gin engine with routes registered by SetupRoutes.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

func (c *Container) Metrics() *telemetry.Metrics {
	return c.metrics
}
