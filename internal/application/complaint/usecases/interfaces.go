package usecases

import (
	"context"

	"github.com/civicpulse/civicpulse/internal/application/complaint/dto"
)

type CreateComplaintExecutor interface {
	Execute(ctx context.Context, cmd CreateComplaintCommand) (*dto.ComplaintDTO, error)
}

type GetComplaintExecutor interface {
	Execute(ctx context.Context, query GetComplaintQuery) (*dto.ComplaintDetailDTO, error)
}

type ListComplaintsExecutor interface {
	Execute(ctx context.Context, query ListComplaintsQuery) (*ListComplaintsResult, error)
}

type UpdateComplaintExecutor interface {
	Execute(ctx context.Context, cmd UpdateComplaintCommand) (*dto.ComplaintDTO, error)
}

type AssignComplaintExecutor interface {
	Execute(ctx context.Context, cmd AssignComplaintCommand) (*dto.ComplaintDTO, error)
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd ChangeStatusCommand) (*dto.ComplaintDTO, error)
}

type MergeComplaintsExecutor interface {
	Execute(ctx context.Context, cmd MergeComplaintsCommand) (*MergeComplaintsResult, error)
}

type UpvoteComplaintExecutor interface {
	Execute(ctx context.Context, cmd UpvoteComplaintCommand) (*UpvoteComplaintResult, error)
}

type CategorizeComplaintExecutor interface {
	Execute(ctx context.Context, cmd CategorizeComplaintCommand) (*CategorizeComplaintResult, error)
}

type DetectDuplicatesExecutor interface {
	Execute(ctx context.Context, cmd DetectDuplicatesCommand) (*DetectDuplicatesResult, error)
}

// ScanSLAsExecutor escalates overdue complaints and returns how many it touched.
type ScanSLAsExecutor interface {
	Execute(ctx context.Context) (int, error)
}

// MetricsRecorder receives triage counters. The prometheus adapter lives in
// infrastructure/telemetry.
type MetricsRecorder interface {
	ComplaintCreated(ward string)
	ComplaintsMerged(mode string)
	ComplaintsEscalated(count int)
	ComplaintClassified(category string)
	EnrichmentFailed(stage string)
}

const (
	MergeModeAuto   = "auto"
	MergeModeManual = "manual"
)

type nopMetrics struct{}

func (nopMetrics) ComplaintCreated(string)    {}
func (nopMetrics) ComplaintsMerged(string)    {}
func (nopMetrics) ComplaintsEscalated(int)    {}
func (nopMetrics) ComplaintClassified(string) {}
func (nopMetrics) EnrichmentFailed(string)    {}

// NopMetrics discards every counter.
func NopMetrics() MetricsRecorder {
	return nopMetrics{}
}
