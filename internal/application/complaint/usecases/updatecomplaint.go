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

type UpdateComplaintCommand struct {
	ComplaintID uint
	Title       *string
	Description *string
	Category    *string
	Ward        *string
	Note        string
	Actor       string
}

// UpdateComplaintUseCase applies an admin edit. A supplied description is run
// through the urgency scan again and may raise, never lower, the priority.
type UpdateComplaintUseCase struct {
	store   complaintStore
	triager *complaint.Triager
	logger  logger.Interface
}

func NewUpdateComplaintUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	txMgr db.Transactor,
	triager *complaint.Triager,
	logger logger.Interface,
) *UpdateComplaintUseCase {
	return &UpdateComplaintUseCase{
		store:   newComplaintStore(complaintRepo, activityRepo, txMgr),
		triager: triager,
		logger:  logger,
	}
}

func (uc *UpdateComplaintUseCase) Execute(ctx context.Context, cmd UpdateComplaintCommand) (*dto.ComplaintDTO, error) {
	uc.logger.Infow("executing update complaint use case", "complaint_id", cmd.ComplaintID, "actor", cmd.Actor)

	reprioritized := false
	c, err := uc.store.mutate(ctx, cmd.ComplaintID, func(_ context.Context, c *complaint.Complaint) (bool, error) {
		var err error
		reprioritized, err = c.Edit(complaint.ComplaintEdit{
			Title:       utils.SanitizeOptional(cmd.Title),
			Description: utils.SanitizeOptional(cmd.Description),
			Category:    utils.SanitizeOptional(cmd.Category),
			Ward:        utils.SanitizeOptional(cmd.Ward),
			Note:        utils.SanitizeText(cmd.Note),
			Actor:       cmd.Actor,
		})
		if err != nil {
			return false, apperrors.NewValidationError(err.Error())
		}
		if reprioritized {
			priority, label := uc.triager.PredictPriority(c.Title(), c.Description())
			c.RaisePriority(priority, label)
		}
		return true, nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to update complaint", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, apperrors.NewInternalError("failed to update complaint")
	}

	uc.logger.Infow("complaint updated successfully", "complaint_id", c.ID(), "reprioritized", reprioritized)
	return dto.ToComplaintDTO(c), nil
}
