package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
	"github.com/civicpulse/civicpulse/internal/shared/constants"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

type DetectDuplicatesCommand struct {
	ComplaintID uint
}

type DetectDuplicatesResult struct {
	Merged     bool
	SourceID   uint
	TargetID   uint
	Similarity float64
}

// DetectDuplicatesUseCase compares a new complaint against the open
// complaints of its ward and merges it with the first one that is similar
// enough. The earlier of the two survives.
type DetectDuplicatesUseCase struct {
	store     complaintStore
	threshold float64
	metrics   MetricsRecorder
	logger    logger.Interface
}

func NewDetectDuplicatesUseCase(
	complaintRepo complaint.ComplaintRepository,
	activityRepo complaint.ActivityRepository,
	txMgr db.Transactor,
	threshold float64,
	metrics MetricsRecorder,
	logger logger.Interface,
) *DetectDuplicatesUseCase {
	if threshold <= 0 || threshold > 1 {
		threshold = triage.DefaultDuplicateThreshold
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	return &DetectDuplicatesUseCase{
		store:     newComplaintStore(complaintRepo, activityRepo, txMgr),
		threshold: threshold,
		metrics:   metrics,
		logger:    logger,
	}
}

func (uc *DetectDuplicatesUseCase) Execute(ctx context.Context, cmd DetectDuplicatesCommand) (*DetectDuplicatesResult, error) {
	uc.logger.Infow("executing detect duplicates use case", "complaint_id", cmd.ComplaintID)

	result := &DetectDuplicatesResult{}
	err := uc.store.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		c, err := uc.store.loadForUpdate(txCtx, cmd.ComplaintID)
		if err != nil {
			return err
		}
		if c.IsMerged() {
			return nil
		}

		candidates, err := uc.store.complaints.ListMergeCandidates(txCtx, c.Ward(), c.ID())
		if err != nil {
			return fmt.Errorf("failed to list merge candidates: %w", err)
		}

		match, score := complaint.FindDuplicate(c, candidates, uc.threshold)
		if match == nil {
			return nil
		}
		if match, err = uc.store.loadForUpdate(txCtx, match.ID()); err != nil {
			return err
		}

		source, target := complaint.CanonicalPair(c, match)
		if err := complaint.Merge(source, target, &score, constants.SystemActor); err != nil {
			return err
		}
		if err := uc.store.saveInTx(txCtx, source, target); err != nil {
			return err
		}

		result.Merged = true
		result.SourceID = source.ID()
		result.TargetID = target.ID()
		result.Similarity = triage.Round2(score)
		return nil
	})
	if err != nil {
		if errors.Is(err, complaint.ErrSourceAlreadyMerged) ||
			errors.Is(err, complaint.ErrTargetAlreadyMerged) ||
			errors.Is(err, complaint.ErrComplaintMerged) {
			// a concurrent detection got there first
			uc.logger.Warnw("duplicate merge skipped", "complaint_id", cmd.ComplaintID, "reason", err)
			return &DetectDuplicatesResult{}, nil
		}
		uc.logger.Errorw("failed to detect duplicates", "complaint_id", cmd.ComplaintID, "error", err)
		return nil, rejectedWrite(err)
	}

	if result.Merged {
		uc.metrics.ComplaintsMerged(MergeModeAuto)
		uc.logger.Infow("duplicate complaint merged",
			"source_id", result.SourceID,
			"target_id", result.TargetID,
			"similarity", result.Similarity,
		)
	}
	return result, nil
}
