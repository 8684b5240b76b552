package complaint

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
)

func TestNewComplaint(t *testing.T) {
	c, err := NewComplaint("  Massive pothole ", "Massive pothole causing traffic", "Koramangala", "", 0, 7, "Asha")
	require.NoError(t, err)

	assert.Equal(t, "Massive pothole", c.Title())
	assert.Equal(t, vo.CategoryGeneral, c.Category())
	assert.Equal(t, vo.StatusPending, c.Status())
	assert.Equal(t, vo.LabelPendingEvaluation, c.PriorityLabel())
	assert.Equal(t, 1, c.ReportsCount())
	assert.Equal(t, 12.0, c.ImpactScore())
	assert.Equal(t, c.CreatedAt().Add(30*24*time.Hour), c.ExpectedResolutionDate())
	assert.True(t, c.IsOwnedBy(7))
	assert.False(t, c.IsOwnedBy(8))
	assert.Equal(t, 1, c.Version())

	require.NoError(t, c.SetID(11))
	activities := c.PendingActivities()
	require.Len(t, activities, 1)
	assert.Equal(t, ActionCreated, activities[0].Action())
	assert.Equal(t, uint(11), activities[0].ComplaintID())
	assert.Equal(t, "Asha", activities[0].Actor())
	assert.Empty(t, c.PendingActivities())
}

func TestNewComplaint_Validation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		ward        string
		priority    vo.Priority
		citizenID   uint
	}{
		{"short title", "ab", "long enough description", "W1", 0, 1},
		{"long title", strings.Repeat("t", 201), "long enough description", "W1", 0, 1},
		{"short description", "Title", "too short", "W1", 0, 1},
		{"short ward", "Title", "long enough description", "W", 0, 1},
		{"priority out of range", "Title", "long enough description", "W1", 6, 1},
		{"missing citizen", "Title", "long enough description", "W1", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComplaint(tt.title, tt.description, tt.ward, vo.CategoryGeneral, tt.priority, tt.citizenID, "x")
			assert.Error(t, err)
		})
	}
}

func TestComplaint_SetIDAndLocation(t *testing.T) {
	c := buildComplaint(t, defaultComplaintParams())
	assert.Error(t, c.SetID(5))

	assert.Error(t, c.SetLocation(91, 0))
	assert.Error(t, c.SetLocation(0, 181))
	require.NoError(t, c.SetLocation(12.93, 77.62))
	assert.Equal(t, &Location{Latitude: 12.93, Longitude: 77.62}, c.Location())
}

func TestComplaint_ApplyTriage(t *testing.T) {
	triager := NewTriager(nil)

	t.Run("general complaint is recategorized and scheduled", func(t *testing.T) {
		p := defaultComplaintParams()
		p.title = "Massive pothole"
		p.description = "Massive pothole causing traffic on the main road"
		c := buildComplaint(t, p)

		require.True(t, c.ApplyTriage(triager.Evaluate(c)))

		assert.Equal(t, vo.Category("PWD & Roads"), c.Category())
		require.NotNil(t, c.AIConfidenceScore())
		assert.Equal(t, 1.0, *c.AIConfidenceScore())
		assert.Equal(t, vo.PriorityMedium, c.Priority())
		assert.Equal(t, vo.LabelMedium, c.PriorityLabel())
		assert.Equal(t, p.createdAt.AddDate(0, 0, 7), c.ExpectedResolutionDate())
		assert.Equal(t, triage.ImpactScore(1, 3, 0), c.ImpactScore())

		activities := c.PendingActivities()
		require.Len(t, activities, 1)
		assert.Equal(t, ActionTriaged, activities[0].Action())
	})

	t.Run("citizen category and priority are kept", func(t *testing.T) {
		p := defaultComplaintParams()
		p.category = "Parks"
		p.priority = 2
		p.title = "Fire near park"
		c := buildComplaint(t, p)

		require.True(t, c.ApplyTriage(triager.Evaluate(c)))

		assert.Equal(t, vo.Category("Parks"), c.Category())
		assert.Nil(t, c.AIConfidenceScore())
		assert.Equal(t, vo.Priority(2), c.Priority())
		assert.Equal(t, vo.LabelHigh, c.PriorityLabel())
		assert.Equal(t, p.createdAt.AddDate(0, 0, 14), c.ExpectedResolutionDate())
	})

	t.Run("low confidence falls back to general", func(t *testing.T) {
		p := defaultComplaintParams()
		p.title = "Light flickering"
		p.description = "It flickers every evening near block C"
		c := buildComplaint(t, p)

		require.True(t, c.ApplyTriage(triager.Evaluate(c)))
		assert.True(t, c.Category().IsGeneral())
		require.NotNil(t, c.AIConfidenceScore())
		assert.Equal(t, 0.33, *c.AIConfidenceScore())
		assert.Equal(t, vo.PriorityLow, c.Priority())
		assert.Equal(t, p.createdAt.AddDate(0, 0, 30), c.ExpectedResolutionDate())
	})

	t.Run("merged complaint is ignored", func(t *testing.T) {
		p := defaultComplaintParams()
		p.merged = true
		p.status = vo.StatusResolved
		c := buildComplaint(t, p)

		assert.False(t, c.ApplyTriage(triager.Evaluate(c)))
		assert.Empty(t, c.PendingActivities())
	})
}

func TestComplaint_EditAndRaisePriority(t *testing.T) {
	p := defaultComplaintParams()
	p.priority = 3
	c := buildComplaint(t, p)

	desc := "Live wire hanging over the garbage pile"
	reprioritize, err := c.Edit(ComplaintEdit{Description: &desc, Actor: "admin"})
	require.NoError(t, err)
	require.True(t, reprioritize)

	priority, label := NewTriager(nil).PredictPriority(c.Title(), c.Description())
	c.RaisePriority(priority, label)
	assert.Equal(t, vo.PriorityHigh, c.Priority())
	assert.Equal(t, vo.LabelHigh, c.PriorityLabel())
	assert.Equal(t, triage.ImpactScore(1, 5, 0), c.ImpactScore())

	// a calmer prediction never lowers the tier
	c.RaisePriority(vo.PriorityLow, vo.LabelLow)
	assert.Equal(t, vo.PriorityHigh, c.Priority())
	assert.Equal(t, vo.LabelLow, c.PriorityLabel())

	activities := c.PendingActivities()
	require.Len(t, activities, 1)
	assert.Equal(t, ActionUpdated, activities[0].Action())
	assert.Equal(t, "description", activities[0].NewValue())
	assert.Equal(t, "Complaint fields updated by admin", activities[0].Details())
}

func TestComplaint_Edit_SameDescriptionStillReprioritizes(t *testing.T) {
	p := defaultComplaintParams()
	p.priority = 3
	c := buildComplaint(t, p)
	c.RaisePriority(vo.PriorityMedium, vo.LabelEscalated)

	same := "  " + c.Description() + " "
	reprioritize, err := c.Edit(ComplaintEdit{Description: &same, Actor: "admin"})
	require.NoError(t, err)
	assert.True(t, reprioritize)

	priority, label := NewTriager(nil).PredictPriority(c.Title(), c.Description())
	c.RaisePriority(priority, label)
	assert.Equal(t, label, c.PriorityLabel())
	assert.NotEqual(t, vo.LabelEscalated, c.PriorityLabel())

	title := "Garbage pile outside the school"
	reprioritize, err = c.Edit(ComplaintEdit{Title: &title, Actor: "admin"})
	require.NoError(t, err)
	assert.False(t, reprioritize)
}

func TestComplaint_Edit_ValidatesBeforeApplying(t *testing.T) {
	c := buildComplaint(t, defaultComplaintParams())

	title := "New title"
	ward := "X"
	_, err := c.Edit(ComplaintEdit{Title: &title, Ward: &ward})
	require.Error(t, err)
	assert.Equal(t, "Garbage pile near school", c.Title())
	assert.Empty(t, c.PendingActivities())
}

func TestComplaint_Assign(t *testing.T) {
	c := buildComplaint(t, defaultComplaintParams())

	assert.Error(t, c.Assign("R", "Roads", "admin"))

	require.NoError(t, c.Assign("Ravi Kumar", "PWD", "admin"))
	assert.Equal(t, vo.StatusInProgress, c.Status())
	assert.Equal(t, Assignment{AssignedTo: "Ravi Kumar", Department: "PWD"}, c.Assignment())

	require.NoError(t, c.Assign("Meena", "", "admin"))

	activities := c.PendingActivities()
	require.Len(t, activities, 2)
	assert.Equal(t, "Unassigned", activities[0].PreviousValue())
	assert.Equal(t, "Assigned to Ravi Kumar in PWD", activities[0].Details())
	assert.Equal(t, "Ravi Kumar", activities[1].PreviousValue())
	assert.Equal(t, "Assigned to Meena", activities[1].Details())
}

func TestComplaint_ChangeStatus(t *testing.T) {
	c := buildComplaint(t, defaultComplaintParams())

	require.NoError(t, c.ChangeStatus(vo.StatusResolved, "", "admin"))
	assert.NotNil(t, c.ResolvedAt())

	require.NoError(t, c.ChangeStatus(vo.StatusInProgress, "reopened after inspection", "admin"))
	assert.Nil(t, c.ResolvedAt())

	assert.Error(t, c.ChangeStatus("Closed", "", "admin"))

	activities := c.PendingActivities()
	require.Len(t, activities, 2)
	assert.Equal(t, "Status changed to Resolved", activities[0].Details())
	assert.Equal(t, "Resolved", activities[1].PreviousValue())
	assert.Equal(t, "reopened after inspection", activities[1].Details())

	p := defaultComplaintParams()
	p.merged = true
	p.status = vo.StatusResolved
	merged := buildComplaint(t, p)
	assert.ErrorIs(t, merged.ChangeStatus(vo.StatusPending, "", "admin"), ErrComplaintMerged)
}

func TestComplaint_Upvote(t *testing.T) {
	c := buildComplaint(t, defaultComplaintParams())
	before := c.ImpactScore()

	c.Upvote("Ravi")
	assert.Equal(t, 1, c.Upvotes())
	assert.Equal(t, before+0.5, c.ImpactScore())

	activities := c.PendingActivities()
	require.Len(t, activities, 1)
	assert.Equal(t, ActionUpvoted, activities[0].Action())
	assert.Equal(t, "0", activities[0].PreviousValue())
	assert.Equal(t, "1", activities[0].NewValue())

	p := defaultComplaintParams()
	p.reports = 10
	p.priority = 5
	top := buildComplaint(t, p)
	top.Upvote("Ravi")
	assert.Equal(t, 100.0, top.ImpactScore())
}

func TestComplaint_EscalateSLA(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("overdue complaint escalates once", func(t *testing.T) {
		p := defaultComplaintParams()
		p.priority = 3
		c := buildComplaint(t, p)

		require.True(t, c.EscalateSLA(now))
		assert.True(t, c.IsSLABreached())
		assert.Equal(t, 1, c.EscalationLevel())
		assert.Equal(t, vo.Priority(4), c.Priority())
		assert.Equal(t, vo.LabelEscalated, c.PriorityLabel())

		assert.False(t, c.EscalateSLA(now.Add(time.Hour)))
		assert.Equal(t, vo.Priority(4), c.Priority())

		activities := c.PendingActivities()
		require.Len(t, activities, 1)
		assert.Equal(t, "Valid", activities[0].PreviousValue())
		assert.Equal(t, "Breached", activities[0].NewValue())
		assert.Equal(t, "system-ai", activities[0].Actor())
	})

	t.Run("top priority keeps label", func(t *testing.T) {
		p := defaultComplaintParams()
		p.priority = 5
		c := buildComplaint(t, p)

		require.True(t, c.EscalateSLA(now))
		assert.Equal(t, vo.PriorityHigh, c.Priority())
		assert.Equal(t, vo.LabelPendingEvaluation, c.PriorityLabel())
	})

	t.Run("not overdue", func(t *testing.T) {
		cases := map[string]func(*complaintParams){
			"future deadline":  func(p *complaintParams) { p.expected = now.Add(time.Hour) },
			"resolved":         func(p *complaintParams) { p.status = vo.StatusResolved },
			"merged":           func(p *complaintParams) { p.merged = true; p.status = vo.StatusResolved },
			"already breached": func(p *complaintParams) { p.breached = true },
		}
		for name, mutate := range cases {
			p := defaultComplaintParams()
			mutate(&p)
			c := buildComplaint(t, p)
			assert.False(t, c.EscalateSLA(now), name)
		}
	})
}

func TestReconstructComplaint_Validation(t *testing.T) {
	p := defaultComplaintParams()
	_, err := ReconstructComplaint(0, p.title, p.description, p.ward, p.category, 0, vo.LabelLow, vo.StatusPending,
		1, nil, Assignment{}, Scores{}, false, nil, SLAState{}, p.createdAt, p.createdAt, nil, 1)
	assert.Error(t, err)

	_, err = ReconstructComplaint(1, p.title, p.description, p.ward, p.category, 0, vo.LabelLow, vo.StatusPending,
		1, nil, Assignment{}, Scores{}, true, nil, SLAState{}, p.createdAt, p.createdAt, nil, 1)
	assert.Error(t, err)

	_, err = ReconstructComplaint(1, p.title, p.description, p.ward, p.category, 0, vo.LabelLow, vo.StatusPending,
		1, nil, Assignment{}, Scores{}, false, nil, SLAState{}, p.createdAt, p.createdAt, nil, 0)
	assert.Error(t, err)
}
