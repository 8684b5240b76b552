package usecases

import (
	"context"

	"github.com/civicpulse/civicpulse/internal/application/complaint/dto"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

type AssignComplaintCommand struct {
	ComplaintID uint
	AssignedTo  string
	Department  string
	Actor       string
}

type AssignComplaintUseCase struct {
	store  complaintStore
	logger logger.Interface
}

func NewAssignComplaintUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	txMgr db.Transactor,
	logger logger.Interface,
) *AssignComplaintUseCase {
	return &AssignComplaintUseCase{
		store:  newComplaintStore(complaintRepo, activityRepo, txMgr),
		logger: logger,
	}
}

func (uc *AssignComplaintUseCase) Execute(ctx context.Context, cmd AssignComplaintCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing assign complaint use case", "complaint_id", cmd.ComplaintID, "assigned_to", cmd.AssignedTo)

	c, err := uc.store.mutate(ctx, cmd.ComplaintID, func(_ context.Context, c *complaint.Complaint) (bool, error) {
		if err := c.Assign(utils.SanitizeText(cmd.AssignedTo), utils.SanitizeText(cmd.Department), cmd.Actor); err != nil {
			return false, apperrors.NewValidationError(err.Error())
		}
		return true, nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to assign complaint", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, apperrors.NewInternalError("failed to assign complaint")
	}

	uc.logger.Infow("complaint assigned successfully", "complaint_id", c.ID(), "status", c.Status().String())
	return dto.ToComplaintDTO(c), nil
}
