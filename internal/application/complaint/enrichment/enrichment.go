// Package enrichment runs duplicate detection and keyword triage for newly
// filed complaints, off the request path.
package enrichment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/civicpulse/civicpulse/internal/application/complaint/usecases"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/domain/shared/events"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

const (
	defaultMaxTries = 3
	defaultTimeout  = 30 * time.Second

	StageDetect     = "detect"
	StageCategorize = "categorize"
)

type Config struct {
	// MaxTries bounds attempts per stage, the first one included.
	MaxTries int
	Timeout  time.Duration

	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxTries:        defaultMaxTries,
		Timeout:         defaultTimeout,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// Handler subscribes to complaint creation. Detection runs before triage so
// a complaint absorbed as a duplicate is not triaged on its own. Each stage
// is retried with exponential backoff; both stages are safe to repeat.
type Handler struct {
	detect     usecases.DetectDuplicatesExecutor
	categorize usecases.CategorizeComplaintExecutor
	config     Config
	metrics    usecases.MetricsRecorder
	logger     logger.Interface
}

func NewHandler(
	detect usecases.DetectDuplicatesExecutor,
	categorize usecases.CategorizeComplaintExecutor,
	config Config,
	metrics usecases.MetricsRecorder,
	log logger.Interface,
) *Handler {
	defaults := DefaultConfig()
	if config.MaxTries <= 0 {
		config.MaxTries = defaults.MaxTries
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = defaults.InitialInterval
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = defaults.MaxInterval
	}
	if metrics == nil {
		metrics = usecases.NopMetrics()
	}
	return &Handler{
		detect:     detect,
		categorize: categorize,
		config:     config,
		metrics:    metrics,
		logger:     log,
	}
}

// Register subscribes h to complaint creation events on subscriber.
func (h *Handler) Register(subscriber events.EventSubscriber) error {
	return subscriber.Subscribe(complaint.EventTypeComplaintCreated, h)
}

func (h *Handler) CanHandle(eventType string) bool {
	return eventType == complaint.EventTypeComplaintCreated
}

func (h *Handler) Handle(event events.DomainEvent) error {
	created, ok := event.(complaint.ComplaintCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	return h.Enrich(ctx, created.ComplaintID)
}

// Enrich runs both stages for one complaint. A failed detection does not
// prevent triage.
func (h *Handler) Enrich(ctx context.Context, complaintID uint) error {
	log := h.logger.With("job_id", uuid.NewString(), "complaint_id", complaintID)
	log.Infow("complaint enrichment started")

	detectErr := h.runStage(ctx, log, StageDetect, func() error {
		_, err := h.detect.Execute(ctx, usecases.DetectDuplicatesCommand{ComplaintID: complaintID})
		return err
	})

	categorizeErr := h.runStage(ctx, log, StageCategorize, func() error {
		_, err := h.categorize.Execute(ctx, usecases.CategorizeComplaintCommand{ComplaintID: complaintID})
		return err
	})

	if err := errors.Join(detectErr, categorizeErr); err != nil {
		return err
	}
	log.Infow("complaint enrichment finished")
	return nil
}

func (h *Handler) runStage(ctx context.Context, log logger.Interface, stage string, op func() error) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = h.config.InitialInterval
	expBackoff.MaxInterval = h.config.MaxInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := op()
		if err != nil && isPermanent(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(uint(h.config.MaxTries)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warnw("enrichment stage failed, retrying", "stage", stage, "retry_in", next, "error", err)
		}),
	)
	if err != nil {
		h.metrics.EnrichmentFailed(stage)
		log.Errorw("enrichment stage gave up", "stage", stage, "error", err)
		return fmt.Errorf("%s: %w", stage, err)
	}
	return nil
}

// isPermanent reports errors that a retry cannot fix, such as a complaint
// that no longer exists.
func isPermanent(err error) bool {
	return apperrors.IsNotFoundError(err) || apperrors.IsValidationError(err)
}
