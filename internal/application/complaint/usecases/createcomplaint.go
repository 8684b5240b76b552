package usecases

import (
	"context"
	"fmt"

	"github.com/civicpulse/civicpulse/internal/application/complaint/dto"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/shared/events"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	"github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

type CreateComplaintCommand struct {
	Title       string
	Description string
	Ward        string
	Category    string
	Priority    int
	Latitude    *float64
	Longitude   *float64
	CitizenID   uint
	CitizenName string
}

// CreateComplaintUseCase files a complaint and hands it to background
// triage. The response never waits for triage.
type CreateComplaintUseCase struct {
	complaintRepo complaint.ComplaintRepository
	activityRepo  complaint.ActivityRepository
	citizenRepo   complaint.CitizenRepository
	txMgr         db.Transactor
	publisher     events.EventPublisher
	metrics       MetricsRecorder
	logger        logger.Interface
}

func NewCreateComplaintUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	citizenRepo complaint.CitizenRepository,
	txMgr db.Transactor,
	publisher events.EventPublisher,
	metrics MetricsRecorder,
	logger logger.Interface,
) *CreateComplaintUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &CreateComplaintUseCase{
		complaintRepo: complaintRepo,
		activityRepo:  activityRepo,
		citizenRepo:   citizenRepo,
		txMgr:         txMgr,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger,
	}
}

func (uc *CreateComplaintUseCase) Execute(ctx context.Context, cmd CreateComplaintCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing create complaint use case", "ward", cmd.Ward, "citizen_id", cmd.CitizenID)

	category, err := vo.NewCategory(utils.SanitizeText(cmd.Category))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if (cmd.Latitude == nil) != (cmd.Longitude == nil) {
		return nil, errors.NewValidationError("latitude and longitude must be provided together")
	}

	c, err := complaint.NewComplaint(
		utils.SanitizeText(cmd.Title),
		utils.SanitizeText(cmd.Description),
		utils.SanitizeText(cmd.Ward),
		category,
		priority,
		cmd.CitizenID,
		cmd.CitizenName,
	)
	if err != nil {
		uc.logger.Warnw("invalid complaint submission", "citizen_id", cmd.CitizenID, "error", err)
		return nil, errors.NewValidationError(err.Error())
	}
	if cmd.Latitude != nil {
		if err := c.SetLocation(*cmd.Latitude, *cmd.Longitude); err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
	}

	txErr := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if cmd.CitizenName != "" {
			citizen, err := complaint.NewCitizen(cmd.CitizenID, cmd.CitizenName)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			if err := uc.citizenRepo.Upsert(txCtx, citizen); err != nil {
				return fmt.Errorf("failed to upsert citizen: %w", err)
			}
		}
		if err := uc.complaintRepo.Create(txCtx, c); err != nil {
			return fmt.Errorf("failed to create complaint: %w", err)
		}
		if err := uc.activityRepo.Append(txCtx, c.PendingActivities()); err != nil {
			return fmt.Errorf("failed to append activities: %w", err)
		}
		return nil
	})
	if txErr != nil {
		if errors.IsAppError(txErr) {
			return nil, txErr
		}
		uc.logger.Errorw("failed to persist complaint", "citizen_id", cmd.CitizenID, "error", txErr)
		return nil, errors.NewInternalError("failed to create complaint")
	}

	uc.metrics.ComplaintCreated(c.Ward())

	event := complaint.NewComplaintCreatedEvent(c.ID(), c.Ward(), c.CreatedAt())
	if err := uc.publisher.Publish(event); err != nil {
		// triage is best effort; the complaint stays at its submitted values
		uc.logger.Warnw("failed to schedule complaint triage", "complaint_id", c.ID(), "error", err)
		uc.metrics.EnrichmentFailed("schedule")
	}

	uc.logger.Infow("complaint created successfully", "complaint_id", c.ID(), "ward", c.Ward())
	return dto.ToComplaintDTO(c), nil
}
