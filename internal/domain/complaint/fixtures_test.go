package complaint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/domain/triage"
)

type complaintParams struct {
	id          uint
	title       string
	description string
	ward        string
	category    vo.Category
	priority    vo.Priority
	status      vo.Status
	reports     int
	upvotes     int
	merged      bool
	breached    bool
	createdAt   time.Time
	expected    time.Time
}

func defaultComplaintParams() complaintParams {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return complaintParams{
		id:          1,
		title:       "Garbage pile near school",
		description: "Garbage not collected near the school gate for a week",
		ward:        "Koramangala",
		category:    vo.CategoryGeneral,
		status:      vo.StatusPending,
		reports:     1,
		createdAt:   created,
		expected:    created.Add(triage.DefaultResolutionWindow()),
	}
}

func buildComplaint(t *testing.T, p complaintParams) *Complaint {
	t.Helper()

	var mergedInto *uint
	if p.merged {
		target := p.id + 1000
		mergedInto = &target
	}

	c, err := ReconstructComplaint(
		p.id,
		p.title,
		p.description,
		p.ward,
		p.category,
		p.priority,
		vo.LabelPendingEvaluation,
		p.status,
		42,
		nil,
		Assignment{},
		Scores{
			ReportsCount: p.reports,
			Upvotes:      p.upvotes,
			ImpactScore:  triage.ImpactScore(p.reports, p.priority.Int(), p.upvotes),
		},
		p.merged,
		mergedInto,
		SLAState{ExpectedResolutionDate: p.expected, Breached: p.breached},
		p.createdAt,
		p.createdAt,
		nil,
		1,
	)
	require.NoError(t, err)
	return c
}
