package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

type MergeComplaintsCommand struct {
	SourceID uint
	TargetID uint
	Actor    string
}

type MergeComplaintsResult struct {
	SourceID uint   `json:"source_id"`
	TargetID uint   `json:"target_id"`
	Message  string `json:"message"`
}

// MergeComplaintsUseCase merges two complaints on an administrator's request.
// Unlike automatic detection the caller picks the target.
type MergeComplaintsUseCase struct {
	store   complaintStore
	metrics MetricsRecorder
	logger  logger.Interface
}

func NewMergeComplaintsUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	txMgr db.Transactor,
	metrics MetricsRecorder,
	logger logger.Interface,
) *MergeComplaintsUseCase {
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &MergeComplaintsUseCase{
		store:   newComplaintStore(complaintRepo, activityRepo, txMgr),
		metrics: metrics,
		logger:  logger,
	}
}

var mergeErrorMessages = map[error]string{
	complaint.ErrSelfMerge:           "Cannot merge same complaint",
	complaint.ErrSourceAlreadyMerged: "Source complaint already merged",
	complaint.ErrTargetAlreadyMerged: "Target complaint already merged",
	complaint.ErrWardMismatch:        "Complaints must be in same ward to merge",
}

func (uc *MergeComplaintsUseCase) Execute(ctx context.Context, cmd MergeComplaintsCommand) (*MergeComplaintsResult, error) {
	uc.logger.Infow("executing merge complaints use case",
		"source_id", cmd.SourceID,
		"target_id", cmd.TargetID,
		"actor", cmd.Actor,
	)

	err := uc.store.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		source, target, err := uc.lockPair(txCtx, cmd.SourceID, cmd.TargetID)
		if err != nil {
			return uc.notFound(err)
		}

		if err := complaint.ManualMerge(source, target, cmd.Actor); err != nil {
			return err
		}
		return uc.store.saveInTx(txCtx, source, target)
	})
	if err != nil {
		for domainErr, message := range mergeErrorMessages {
			if errors.Is(err, domainErr) {
				uc.logger.Warnw("merge rejected", "source_id", cmd.SourceID, "target_id", cmd.TargetID, "reason", message)
				return nil, apperrors.NewValidationError(message)
			}
		}
		if err = rejectedWrite(err); apperrors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to merge complaints", "source_id", cmd.SourceID, "target_id", cmd.TargetID, "error", err)
		return nil, apperrors.NewInternalError("failed to merge complaints")
	}

	uc.metrics.ComplaintsMerged(MergeModeManual)
	uc.logger.Infow("complaints merged successfully", "source_id", cmd.SourceID, "target_id", cmd.TargetID)

	return &MergeComplaintsResult{
		SourceID: cmd.SourceID,
		TargetID: cmd.TargetID,
		Message:  fmt.Sprintf("Complaint #%d merged into complaint #%d", cmd.SourceID, cmd.TargetID),
	}, nil
}

// lockPair loads both complaints under row locks, lower id first.
func (uc *MergeComplaintsUseCase) lockPair(ctx context.Context, sourceID, targetID uint) (*complaint.Complaint, *complaint.Complaint, error) {
	first, second := sourceID, targetID
	if second < first {
		first, second = second, first
	}
	a, err := uc.store.loadForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := uc.store.loadForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID() == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

func (uc *MergeComplaintsUseCase) notFound(err error) error {
	if apperrors.IsNotFoundError(err) {
		return apperrors.NewNotFoundError("Source or target complaint not found")
	}
	return err
}
