package usecases

import (
	"context"
	"errors"

	"github.com/civicpulse/civicpulse/internal/application/complaint/dto"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

type ChangeStatusCommand struct {
	ComplaintID uint
	Status      string
	Note        string
	Actor       string
}

type ChangeStatusUseCase struct {
	store  complaintStore
	logger logger.Interface
}

func NewChangeStatusUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	txMgr db.Transactor,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		store:  newComplaintStore(complaintRepo, activityRepo, txMgr),
		logger: logger,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing change status use case", "complaint_id", cmd.ComplaintID, "status", cmd.Status)

	status, err := parseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	c, err := uc.store.mutate(ctx, cmd.ComplaintID, func(_ context.Context, c *complaint.Complaint) (bool, error) {
		if err := c.ChangeStatus(status, utils.SanitizeText(cmd.Note), cmd.Actor); err != nil {
			if errors.Is(err, complaint.ErrComplaintMerged) {
				return false, apperrors.NewValidationError("Merged complaints cannot change status")
			}
			return false, apperrors.NewValidationError(err.Error())
		}
		return true, nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to change complaint status", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, apperrors.NewInternalError("failed to update status")
	}

	uc.logger.Infow("complaint status changed", "complaint_id", c.ID(), "status", c.Status().String())
	return dto.ToComplaintDTO(c), nil
}
