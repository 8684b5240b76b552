package usecases

import (
	"context"
	"fmt"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/biztime"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

// ScanSLAsUseCase escalates every complaint that has run past its expected
// resolution date. A complaint is escalated at most once.
type ScanSLAsUseCase struct {
	store   complaintStore
	metrics MetricsRecorder
	logger  logger.Interface
}

func NewScanSLAsUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	txMgr db.Transactor,
	metrics MetricsRecorder,
	logger logger.Interface,
) *ScanSLAsUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &ScanSLAsUseCase{
		store:   newComplaintStore(complaintRepo, activityRepo, txMgr),
		metrics: metrics,
		logger:  logger,
	}
}

// Execute returns the number of complaints escalated by this scan.
func (uc *ScanSLAsUseCase) Execute(ctx context.Context) (int, error) {
	uc.logger.Infow("executing scan SLAs use case")

	now := biztime.NowUTC()
	overdue, err := uc.store.complaints.ListSLAOverdue(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to list overdue complaints", "error", err)
		return 0, fmt.Errorf("failed to list overdue complaints: %w", err)
	}
	if len(overdue) == 0 {
		return 0, nil
	}

	// the listing may be stale by now; rows are re-read under lock
	var escalated []*complaint.Complaint
	err = uc.store.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, listed := range overdue {
			c, err := uc.store.loadForUpdate(txCtx, listed.ID())
			if err != nil {
				if apperrors.IsNotFoundError(err) {
					continue
				}
				return err
			}
			if c.EscalateSLA(now) {
				escalated = append(escalated, c)
			}
		}
		return uc.store.saveInTx(txCtx, escalated...)
	})
	if err != nil {
		uc.logger.Errorw("failed to save escalations", "count", len(escalated), "error", err)
		return 0, rejectedWrite(err)
	}
	if len(escalated) == 0 {
		return 0, nil
	}

	uc.metrics.ComplaintsEscalated(len(escalated))
	uc.logger.Infow("SLA scan complete", "escalated", len(escalated))
	return len(escalated), nil
}

// ScanSLAsMessage is the operator-facing summary of a scan.
func ScanSLAsMessage(count int) string {
	return fmt.Sprintf("SLA Scan Complete. %d complaints escalated.", count)
}
