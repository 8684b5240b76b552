package complaint

import (
	"context"
	"errors"
	"time"

	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrCitizenNotFound   = errors.New("citizen not found")
	// ErrComplaintModified means the row changed after the complaint was
	// loaded, so the update was not applied.
	ErrComplaintModified = errors.New("complaint was modified concurrently")
)

type ComplaintRepository interface {
	Create(ctx context.Context, c *Complaint) error

	// Update persists c. It fails with ErrComplaintMerged when the stored
	// row is already merged and with ErrComplaintModified when it moved past
	// c's version.
	Update(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, id uint) (*Complaint, error)

	// GetByIDForUpdate loads the complaint and locks its row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint) (*Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]*Complaint, int64, error)

	// ListMergeCandidates returns unmerged complaints of ward other than
	// excludeID, oldest first.
	ListMergeCandidates(ctx context.Context, ward string, excludeID uint) ([]*Complaint, error)

	// ListSLAOverdue returns open, unmerged, not yet breached complaints whose
	// expected resolution date is before now.
	ListSLAOverdue(ctx context.Context, now time.Time) ([]*Complaint, error)

	// ListMergedInto returns the complaints merged into targetID.
	ListMergedInto(ctx context.Context, targetID uint) ([]*Complaint, error)
}

type ComplaintFilter struct {
	Status        *vo.Status
	Ward          string
	Priority      *vo.Priority
	AssignedTo    string
	CitizenID     *uint
	IncludeMerged bool
	Page          int
	PageSize      int
}

type ActivityRepository interface {
	Append(ctx context.Context, activities []*Activity) error
	ListByComplaint(ctx context.Context, complaintID uint) ([]*Activity, error)
}

type CitizenRepository interface {
	GetByID(ctx context.Context, id uint) (*Citizen, error)
	// Upsert creates the citizen or refreshes its name, keeping points.
	Upsert(ctx context.Context, citizen *Citizen) error
	// AwardPoints adds delta to the citizen's reward balance.
	AwardPoints(ctx context.Context, citizenID uint, delta int) error
}
