package usecases

import (
	"context"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

type CategorizeComplaintCommand struct {
	ComplaintID uint
}

type CategorizeComplaintResult struct {
	Applied    bool
	Category   string
	Priority   int
	Confidence *float64
}

// CategorizeComplaintUseCase runs keyword triage on a complaint once it has
// been filed.
type CategorizeComplaintUseCase struct {
	store   complaintStore
	triager *complaint.Triager
	metrics MetricsRecorder
	logger  logger.Interface
}

func NewCategorizeComplaintUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	txMgr db.Transactor,
	triager *complaint.Triager,
	metrics MetricsRecorder,
	logger logger.Interface,
) *CategorizeComplaintUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &CategorizeComplaintUseCase{
		store:   newComplaintStore(complaintRepo, activityRepo, txMgr),
		triager: triager,
		metrics: metrics,
		logger:  logger,
	}
}

func (uc *CategorizeComplaintUseCase) Execute(ctx context.Context, cmd CategorizeComplaintCommand) (*CategorizeComplaintResult, error) {
	uc.logger.Infow("executing categorize complaint use case", "complaint_id", cmd.ComplaintID)

	applied := false
	c, err := uc.store.mutate(ctx, cmd.ComplaintID, func(_ context.Context, c *complaint.Complaint) (bool, error) {
		applied = c.ApplyTriage(uc.triager.Evaluate(c))
		return applied, nil
	})
	if err != nil {
		uc.logger.Errorw("failed to triage complaint", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, err
	}

	if !applied {
		uc.logger.Infow("complaint already merged, triage skipped", "complaint_id", c.ID())
		return &CategorizeComplaintResult{Category: c.Category().String(), Priority: c.Priority().Int()}, nil
	}

	uc.metrics.ComplaintClassified(c.Category().String())
	uc.logger.Infow("complaint triaged",
		"complaint_id", c.ID(),
		"category", c.Category().String(),
		"priority", c.Priority().Int(),
		"expected_resolution", c.ExpectedResolutionDate(),
	)

	return &CategorizeComplaintResult{
		Applied:    true,
		Category:   c.Category().String(),
		Priority:   c.Priority().Int(),
		Confidence: c.AIConfidenceScore(),
	}, nil
}
