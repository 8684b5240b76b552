package usecases

import (
	"context"

	"github.com/civicpulse/civicpulse/internal/application/complaint/dto"
	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/shared/authorization"
	"github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

type ListComplaintsQuery struct {
	Status        string
	Ward          string
	Priority      *int
	AssignedTo    string
	IncludeMerged bool
	Page          int
	PageSize      int
	UserID        uint
	Role          authorization.UserRole
}

type ListComplaintsResult struct {
	Complaints []*dto.ComplaintDTO `json:"complaints"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
}

// ListComplaintsUseCase lists complaints newest first. Citizens only ever see
// their own filings.
type ListComplaintsUseCase struct {
	complaintRepo complaint.ComplaintRepository
	logger        logger.Interface
}

func NewListComplaintsUseCase(
	complaintRepo complaint.ComplaintRepository,
	logger logger.Interface,
) *ListComplaintsUseCase {
	return &ListComplaintsUseCase{
		complaintRepo: complaintRepo,
		logger:        logger,
	}
}

func (uc *ListComplaintsUseCase) Execute(ctx context.Context, query ListComplaintsQuery) (*ListComplaintsResult, error) {
	uc.logger.Infow("executing list complaints use case", "user_id", query.UserID, "role", query.Role.String())

	pagination := utils.NewPagination(query.Page, query.PageSize)
	filter := complaint.ComplaintFilter{
		Ward:          query.Ward,
		AssignedTo:    query.AssignedTo,
		IncludeMerged: query.IncludeMerged,
		Page:          pagination.Page,
		PageSize:      pagination.PageSize,
	}

	if query.Status != "" {
		status, err := parseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if query.Priority != nil {
		priority, err := vo.NewPriority(*query.Priority)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		filter.Priority = &priority
	}
	if !query.Role.IsAdmin() {
		citizenID := query.UserID
		filter.CitizenID = &citizenID
	}

	complaints, total, err := uc.complaintRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list complaints", "error", err)
		return nil, errors.NewInternalError("failed to list complaints")
	}

	return &ListComplaintsResult{
		Complaints: dto.ToComplaintDTOList(complaints),
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	}, nil
}

func parseStatus(s string) (vo.Status, error) {
	status, err := vo.NewStatus(s)
	if err != nil {
		return "", errors.NewValidationError("Invalid status. Allowed: Pending, In Progress, Resolved")
	}
	return status, nil
}
