package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/shared/events"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
)

type mockComplaintRepository struct {
	CreateFunc              func(ctx context.Context, c *complaint.Complaint) error
	UpdateFunc              func(ctx context.Context, c *complaint.Complaint) error
	GetByIDFunc             func(ctx context.Context, id uint) (*complaint.Complaint, error)
	GetByIDForUpdateFunc    func(ctx context.Context, id uint) (*complaint.Complaint, error)
	ListFunc                func(ctx context.Context, filter complaint.ComplaintFilter) ([]*complaint.Complaint, int64, error)
	ListMergeCandidatesFunc func(ctx context.Context, ward string, excludeID uint) ([]*complaint.Complaint, error)
	ListSLAOverdueFunc      func(ctx context.Context, now time.Time) ([]*complaint.Complaint, error)
	ListMergedIntoFunc      func(ctx context.Context, targetID uint) ([]*complaint.Complaint, error)
}

func (m *mockComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return c.SetID(1)
}

func (m *mockComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockComplaintRepository) GetByID(ctx context.Context, id uint) (*complaint.Complaint, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, complaint.ErrComplaintNotFound
}

func (m *mockComplaintRepository) GetByIDForUpdate(ctx context.Context, id uint) (*complaint.Complaint, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *mockComplaintRepository) List(ctx context.Context, filter complaint.ComplaintFilter) ([]*complaint.Complaint, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockComplaintRepository) ListMergeCandidates(ctx context.Context, ward string, excludeID uint) ([]*complaint.Complaint, error) {
	if m.ListMergeCandidatesFunc != nil {
		return m.ListMergeCandidatesFunc(ctx, ward, excludeID)
	}
	return nil, nil
}

func (m *mockComplaintRepository) ListSLAOverdue(ctx context.Context, now time.Time) ([]*complaint.Complaint, error) {
	if m.ListSLAOverdueFunc != nil {
		return m.ListSLAOverdueFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockComplaintRepository) ListMergedInto(ctx context.Context, targetID uint) ([]*complaint.Complaint, error) {
	if m.ListMergedIntoFunc != nil {
		return m.ListMergedIntoFunc(ctx, targetID)
	}
	return nil, nil
}

type mockActivityRepository struct {
	mu       sync.Mutex
	appended []*complaint.Activity

	AppendFunc          func(ctx context.Context, activities []*complaint.Activity) error
	ListByComplaintFunc func(ctx context.Context, complaintID uint) ([]*complaint.Activity, error)
}

func (m *mockActivityRepository) Append(ctx context.Context, activities []*complaint.Activity) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, activities)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appended = append(m.appended, activities...)
	return nil
}

func (m *mockActivityRepository) ListByComplaint(ctx context.Context, complaintID uint) ([]*complaint.Activity, error) {
	if m.ListByComplaintFunc != nil {
		return m.ListByComplaintFunc(ctx, complaintID)
	}
	return nil, nil
}

func (m *mockActivityRepository) actions() []complaint.ActivityAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]complaint.ActivityAction, 0, len(m.appended))
	for _, a := range m.appended {
		out = append(out, a.Action())
	}
	return out
}

type mockCitizenRepository struct {
	GetByIDFunc     func(ctx context.Context, id uint) (*complaint.Citizen, error)
	UpsertFunc      func(ctx context.Context, citizen *complaint.Citizen) error
	AwardPointsFunc func(ctx context.Context, citizenID uint, delta int) error
}

func (m *mockCitizenRepository) GetByID(ctx context.Context, id uint) (*complaint.Citizen, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, complaint.ErrCitizenNotFound
}

func (m *mockCitizenRepository) Upsert(ctx context.Context, citizen *complaint.Citizen) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, citizen)
	}
	return nil
}

func (m *mockCitizenRepository) AwardPoints(ctx context.Context, citizenID uint, delta int) error {
	if m.AwardPointsFunc != nil {
		return m.AwardPointsFunc(ctx, citizenID, delta)
	}
	return nil
}

// passthroughTx runs fn directly, counting calls.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type mockEventPublisher struct {
	published []events.DomainEvent
	err       error
}

func (m *mockEventPublisher) Publish(event events.DomainEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

type recordingMetrics struct {
	created    int
	merged     map[string]int
	escalated  int
	classified []string
	failed     []string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{merged: map[string]int{}}
}

func (m *recordingMetrics) ComplaintCreated(string)      { m.created++ }
func (m *recordingMetrics) ComplaintsMerged(mode string) { m.merged[mode]++ }
func (m *recordingMetrics) ComplaintsEscalated(n int)    { m.escalated += n }
func (m *recordingMetrics) ComplaintClassified(category string) {
	m.classified = append(m.classified, category)
}
func (m *recordingMetrics) EnrichmentFailed(stage string) { m.failed = append(m.failed, stage) }

type testComplaint struct {
	id          uint
	title       string
	description string
	ward        string
	category    vo.Category
	priority    vo.Priority
	status      vo.Status
	citizenID   uint
	merged      bool
	createdAt   time.Time
	expected    time.Time
}

func defaultTestComplaint(id uint) testComplaint {
	created := time.Now().UTC().Add(-48 * time.Hour).Add(time.Duration(id) * time.Minute)
	return testComplaint{
		id:          id,
		title:       "Garbage pile near school",
		description: "Garbage not collected near the school gate for a week",
		ward:        "Koramangala",
		category:    vo.CategoryGeneral,
		status:      vo.StatusPending,
		citizenID:   42,
		createdAt:   created,
		expected:    created.Add(triage.DefaultResolutionWindow()),
	}
}

func (tc testComplaint) build(t *testing.T) *complaint.Complaint {
	t.Helper()

	var mergedInto *uint
	status := tc.status
	if tc.merged {
		target := tc.id + 1000
		mergedInto = &target
		status = vo.StatusResolved
	}

	c, err := complaint.ReconstructComplaint(
		tc.id, tc.title, tc.description, tc.ward, tc.category, tc.priority,
		vo.LabelPendingEvaluation, status, tc.citizenID, nil, complaint.Assignment{},
		complaint.Scores{ReportsCount: 1, ImpactScore: triage.ImpactScore(1, tc.priority.Int(), 0)},
		tc.merged, mergedInto,
		complaint.SLAState{ExpectedResolutionDate: tc.expected},
		tc.createdAt, tc.createdAt, nil, 1,
	)
	require.NoError(t, err)
	return c
}

func repoWith(complaints ...*complaint.Complaint) *mockComplaintRepository {
	byID := make(map[uint]*complaint.Complaint, len(complaints))
	for _, c := range complaints {
		byID[c.ID()] = c
	}
	return &mockComplaintRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*complaint.Complaint, error) {
			if c, ok := byID[id]; ok {
				return c, nil
			}
			return nil, complaint.ErrComplaintNotFound
		},
	}
}
