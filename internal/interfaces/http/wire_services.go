package http

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/civicpulse/civicpulse/internal/application/complaint/enrichment"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/domain/shared/events"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
	"github.com/civicpulse/civicpulse/internal/infrastructure/auth"
	"github.com/civicpulse/civicpulse/internal/infrastructure/cache"
	"github.com/civicpulse/civicpulse/internal/infrastructure/ratelimit"
	"github.com/civicpulse/civicpulse/internal/infrastructure/scheduler"
	"github.com/civicpulse/civicpulse/internal/infrastructure/telemetry"
	"github.com/civicpulse/civicpulse/internal/infrastructure/triageconfig"
	"github.com/civicpulse/civicpulse/internal/interfaces/http/middleware"
	"github.com/civicpulse/civicpulse/internal/shared/db"
)

// ============================================================
// Section 1: Infrastructure - repositories, auth, metrics
// ============================================================

func (c *Container) initInfrastructure() {
	cfg := c.cfg

	c.repos = newRepositories(c.db)
	c.txMgr = db.NewTransactionManager(c.db)
	c.metrics = telemetry.NewMetrics()

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log)

	var limiter ratelimit.RateLimiter
	if c.redis != nil {
		limiter = ratelimit.NewRedisRateLimiter(c.redis)
	} else {
		c.log.Warnw("redis not configured, per-user rate limits are disabled")
	}
	c.rateLimiter = middleware.NewRateLimiter(limiter, c.log)
}

// ============================================================
// Section 2: Triage - keyword tables, classifier, event dispatcher
// ============================================================

func (c *Container) initTriage() error {
	tables, err := triageconfig.Load(c.cfg.Triage.KeywordsFile)
	if err != nil {
		return fmt.Errorf("failed to load keyword tables: %w", err)
	}
	if c.cfg.Triage.KeywordsFile != "" {
		c.log.Infow("loaded keyword tables", "file", c.cfg.Triage.KeywordsFile, "categories", len(tables.Categories))
	}

	c.triager = complaint.NewTriager(triage.NewClassifier(tables))
	c.dispatcher = events.NewInMemoryEventDispatcher(c.cfg.Triage.DispatcherBuffer, c.log)
	return nil
}

// ============================================================
// Section 3: Background - enrichment subscriber, SLA scheduler
// ============================================================

func (c *Container) initBackground() error {
	triageCfg := c.cfg.Triage

	c.enrichment = enrichment.NewHandler(
		c.ucs.detectDuplicates,
		c.ucs.categorize,
		enrichment.Config{
			MaxTries: triageCfg.EnrichmentRetries,
			Timeout:  time.Duration(triageCfg.EnrichmentTimeoutSeconds) * time.Second,
		},
		c.metrics,
		c.log,
	)
	if err := c.enrichment.Register(c.dispatcher); err != nil {
		return fmt.Errorf("failed to register enrichment handler: %w", err)
	}

	if !c.cfg.SLA.Enabled {
		c.log.Infow("sla scheduler disabled")
		return nil
	}

	var locker gocron.Locker
	if c.redis != nil {
		locker = cache.NewJobLocker(c.redis, 0)
	}

	manager, err := scheduler.NewSchedulerManager(c.log, locker)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	interval := time.Duration(c.cfg.SLA.ScanIntervalMinutes) * time.Minute
	if err := manager.RegisterSLAJobs(c.ucs.scanSLAs, interval); err != nil {
		return fmt.Errorf("failed to register sla jobs: %w", err)
	}
	c.schedulerManager = manager
	return nil
}

// Start launches the event dispatcher and the scheduler.
func (c *Container) Start() error {
	if err := c.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}
	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
	return nil
}

// Shutdown stops the scheduler first so no new scans begin, then drains
// pending enrichment jobs.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}
	if err := c.dispatcher.Stop(); err != nil {
		c.log.Errorw("failed to stop event dispatcher", "error", err)
	}
}
