package usecases

import (
	"context"
	"errors"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

type UpvoteComplaintCommand struct {
	ComplaintID uint
	UserID      uint
	UserName    string
}

type UpvoteComplaintResult struct {
	ComplaintID uint    `json:"complaint_id"`
	Upvotes     int     `json:"upvotes"`
	ImpactScore float64 `json:"impact_score"`
	Message     string  `json:"message"`
}

type UpvoteComplaintUseCase struct {
	store       complaintStore
	citizenRepo complaint.CitizenRepository
	logger      logger.Interface
}

func NewUpvoteComplaintUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	citizenRepo complaint.CitizenRepository,
	txMgr db.Transactor,
	logger logger.Interface,
) *UpvoteComplaintUseCase {
	return &UpvoteComplaintUseCase{
		store:       newComplaintStore(complaintRepo, activityRepo, txMgr),
		citizenRepo: citizenRepo,
		logger:      logger,
	}
}

func (uc *UpvoteComplaintUseCase) Execute(ctx context.Context, cmd UpvoteComplaintCommand) (*UpvoteComplaintResult, error) {
	uc.logger.Infow("executing upvote complaint use case", "complaint_id", cmd.ComplaintID, "user_id", cmd.UserID)

	c, err := uc.store.mutate(ctx, cmd.ComplaintID, func(txCtx context.Context, c *complaint.Complaint) (bool, error) {
		c.Upvote(cmd.UserName)
		return true, uc.rewardOwner(txCtx, c.CitizenID())
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to save upvote", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, apperrors.NewInternalError("failed to upvote complaint")
	}

	uc.logger.Infow("complaint upvoted", "complaint_id", c.ID(), "upvotes", c.Upvotes())
	return &UpvoteComplaintResult{
		ComplaintID: c.ID(),
		Upvotes:     c.Upvotes(),
		ImpactScore: c.ImpactScore(),
		Message:     "Complaint upvoted successfully",
	}, nil
}

func (uc *UpvoteComplaintUseCase) rewardOwner(ctx context.Context, citizenID uint) error {
	err := uc.citizenRepo.AwardPoints(ctx, citizenID, complaint.UpvoteRewardPoints)
	if errors.Is(err, complaint.ErrCitizenNotFound) {
		uc.logger.Warnw("complaint owner has no reward account", "citizen_id", citizenID)
		return nil
	}
	return err
}
