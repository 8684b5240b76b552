package usecases

import (
	"context"

	"github.com/civicpulse/civicpulse/internal/application/complaint/dto"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/authorization"
	"github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

type GetComplaintQuery struct {
	ComplaintID uint
	UserID      uint
	Role        authorization.UserRole
}

type GetComplaintUseCase struct {
	complaintRepo complaint.ComplaintRepository
	activityRepo  complaint.ActivityRepository
	logger        logger.Interface
}

func NewGetComplaintUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	logger logger.Interface,
) *GetComplaintUseCase {
	return &GetComplaintUseCase{
		complaintRepo: complaintRepo,
		activityRepo:  activityRepo,
		logger:        logger,
	}
}

func (uc *GetComplaintUseCase) Execute(ctx context.Context, query GetComplaintQuery) (*dto.ComplaintDetailDTO, error) {
	uc.logger.Infow("executing get complaint use case", "complaint_id", query.ComplaintID, "user_id", query.UserID)

	store := complaintStore{complaints: uc.complaintRepo}
	c, err := store.load(ctx, query.ComplaintID)
	if err != nil {
		return nil, err
	}

	if !authorization.CanAccessComplaint(query.UserID, query.Role, c.CitizenID()) {
		uc.logger.Warnw("complaint access denied", "complaint_id", c.ID(), "user_id", query.UserID)
		return nil, errors.NewForbiddenError("Not allowed to view this complaint")
	}

	activities, err := uc.activityRepo.ListByComplaint(ctx, c.ID())
	if err != nil {
		uc.logger.Errorw("failed to list complaint activities", "complaint_id", c.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load complaint activity")
	}

	merged, err := uc.complaintRepo.ListMergedInto(ctx, c.ID())
	if err != nil {
		uc.logger.Errorw("failed to list merged complaints", "complaint_id", c.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load merged complaints")
	}

	return dto.ToComplaintDetailDTO(c, activities, merged), nil
}
