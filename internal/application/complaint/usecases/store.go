package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
)

// complaintStore persists aggregates together with the activity entries
// their mutations recorded, in one transaction.
type complaintStore struct {
	complaints complaint.ComplaintRepository
	activities complaint.ActivityRepository
	txMgr      db.Transactor
}

func newComplaintStore(
	complaints complaint.ComplaintRepository,
	activities complaint.ActivityRepository,
	txMgr db.Transactor,
) complaintStore {
	return complaintStore{complaints: complaints, activities: activities, txMgr: txMgr}
}

// load maps a missing complaint to a NotFoundError.
func (s complaintStore) load(ctx context.Context, id uint) (*complaint.Complaint, error) {
	return s.fetch(ctx, id, s.complaints.GetByID)
}

// loadForUpdate is load with a row lock; ctx must carry a transaction.
func (s complaintStore) loadForUpdate(ctx context.Context, id uint) (*complaint.Complaint, error) {
	return s.fetch(ctx, id, s.complaints.GetByIDForUpdate)
}

func (s complaintStore) fetch(
	ctx context.Context,
	id uint,
	get func(ctx context.Context, id uint) (*complaint.Complaint, error),
) (*complaint.Complaint, error) {
	c, err := get(ctx, id)
	if err != nil {
		if errors.Is(err, complaint.ErrComplaintNotFound) {
			return nil, apperrors.NewNotFoundError("Complaint not found")
		}
		return nil, fmt.Errorf("failed to load complaint %d: %w", id, err)
	}
	if c == nil {
		return nil, apperrors.NewNotFoundError("Complaint not found")
	}
	return c, nil
}

// mutateFunc changes c and reports whether there is anything to save.
type mutateFunc func(ctx context.Context, c *complaint.Complaint) (bool, error)

// mutate loads the complaint under a row lock, applies fn and saves the
// result in the same transaction.
func (s complaintStore) mutate(ctx context.Context, id uint, fn mutateFunc) (*complaint.Complaint, error) {
	var c *complaint.Complaint
	err := s.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		loaded, err := s.loadForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		changed, err := fn(txCtx, loaded)
		if err != nil {
			return err
		}
		c = loaded
		if !changed {
			return nil
		}
		return s.saveInTx(txCtx, loaded)
	})
	if err != nil {
		return nil, rejectedWrite(err)
	}
	return c, nil
}

func (s complaintStore) saveInTx(ctx context.Context, complaints ...*complaint.Complaint) error {
	var pending []*complaint.Activity
	for _, c := range complaints {
		if err := s.complaints.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to update complaint %d: %w", c.ID(), err)
		}
		pending = append(pending, c.PendingActivities()...)
	}
	if len(pending) == 0 {
		return nil
	}
	if err := s.activities.Append(ctx, pending); err != nil {
		return fmt.Errorf("failed to append activities: %w", err)
	}
	return nil
}

// rejectedWrite turns an update the store refused into the error reported
// to the caller. A merged complaint is a failed precondition; a concurrent
// modification is a conflict the caller may retry.
func rejectedWrite(err error) error {
	switch {
	case errors.Is(err, complaint.ErrComplaintMerged):
		return apperrors.NewValidationError("Complaint has been merged")
	case errors.Is(err, complaint.ErrComplaintModified):
		return apperrors.NewConflictError("Complaint was modified concurrently, please retry")
	}
	return err
}
