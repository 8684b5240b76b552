// Package scheduler runs the periodic complaint maintenance jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/civicpulse/civicpulse/internal/shared/biztime"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a plain function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

const slaJobName = "sla-scanner"

type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler running in the business timezone.
// With a non-nil locker every job run first takes a distributed lock, so
// replicas sharing one database do not scan concurrently.
func NewSchedulerManager(log logger.Interface, locker gocron.Locker) (*SchedulerManager, error) {
	opts := []gocron.SchedulerOption{
		gocron.WithLocation(biztime.Location()),
	}
	if locker != nil {
		opts = append(opts, gocron.WithDistributedLocker(locker))
	}

	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterSLAJobs schedules the SLA scanner. The first run happens as soon as
// the scheduler starts; overlapping runs are rescheduled instead of stacked.
func (m *SchedulerManager) RegisterSLAJobs(scanJob BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}

	timeout := interval
	if timeout > 10*time.Minute {
		timeout = 10 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.runSLAScan(ctx, scanJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("sla", "escalation"),
		gocron.WithName(slaJobName),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered sla jobs", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) runSLAScan(ctx context.Context, scanJob BatchJob) {
	runID := uuid.NewString()
	m.logger.Debugw("sla scan started", "run_id", runID)

	startTime := biztime.NowUTC()

	escalated, err := scanJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to scan sla breaches",
			"run_id", runID,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if escalated > 0 {
		m.logger.Infow("sla breaches escalated",
			"run_id", runID,
			"count", escalated,
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
