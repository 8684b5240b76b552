package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

func TestDetectDuplicates_NewerComplaintMergesIntoOlder(t *testing.T) {
	older := defaultTestComplaint(1).build(t)
	newer := defaultTestComplaint(2).build(t)

	repo := repoWith(older, newer)
	repo.ListMergeCandidatesFunc = func(ctx context.Context, ward string, excludeID uint) ([]*complaint.Complaint, error) {
		assert.Equal(t, "Koramangala", ward)
		assert.Equal(t, uint(2), excludeID)
		return []*complaint.Complaint{older}, nil
	}
	var updated []uint
	repo.UpdateFunc = func(ctx context.Context, c *complaint.Complaint) error {
		updated = append(updated, c.ID())
		return nil
	}
	activities := &mockActivityRepository{}
	metrics := newRecordingMetrics()

	uc := NewDetectDuplicatesUseCase(repo, activities, &passthroughTx{}, 0.75, metrics, logger.NewNop())
	result, err := uc.Execute(context.Background(), DetectDuplicatesCommand{ComplaintID: 2})
	require.NoError(t, err)

	assert.True(t, result.Merged)
	assert.Equal(t, uint(2), result.SourceID)
	assert.Equal(t, uint(1), result.TargetID)
	assert.Equal(t, 1.0, result.Similarity)

	assert.ElementsMatch(t, []uint{1, 2}, updated)
	assert.ElementsMatch(t,
		[]complaint.ActivityAction{complaint.ActionMerged, complaint.ActionDuplicateLinked},
		activities.actions(),
	)
	assert.True(t, newer.IsMerged())
	assert.Equal(t, 2, older.ReportsCount())
	assert.Equal(t, 1, metrics.merged[MergeModeAuto])
}

func TestDetectDuplicates_NoSimilarCandidate(t *testing.T) {
	filed := defaultTestComplaint(2).build(t)

	other := defaultTestComplaint(1)
	other.title = "Pothole on main road"
	other.description = "Large pothole outside the bus depot damaging vehicles"

	repo := repoWith(filed)
	repo.ListMergeCandidatesFunc = func(ctx context.Context, ward string, excludeID uint) ([]*complaint.Complaint, error) {
		return []*complaint.Complaint{other.build(t)}, nil
	}
	repo.UpdateFunc = func(ctx context.Context, c *complaint.Complaint) error {
		t.Fatal("nothing should be saved")
		return nil
	}
	metrics := newRecordingMetrics()

	uc := NewDetectDuplicatesUseCase(repo, &mockActivityRepository{}, &passthroughTx{}, 0.75, metrics, logger.NewNop())
	result, err := uc.Execute(context.Background(), DetectDuplicatesCommand{ComplaintID: 2})
	require.NoError(t, err)
	assert.False(t, result.Merged)
	assert.Empty(t, metrics.merged)
}

func TestDetectDuplicates_SkipsMergedComplaint(t *testing.T) {
	tc := defaultTestComplaint(3)
	tc.merged = true

	repo := repoWith(tc.build(t))
	repo.ListMergeCandidatesFunc = func(ctx context.Context, ward string, excludeID uint) ([]*complaint.Complaint, error) {
		t.Fatal("merged complaints are not compared")
		return nil, nil
	}

	uc := NewDetectDuplicatesUseCase(repo, &mockActivityRepository{}, &passthroughTx{}, 0, nil, logger.NewNop())
	result, err := uc.Execute(context.Background(), DetectDuplicatesCommand{ComplaintID: 3})
	require.NoError(t, err)
	assert.False(t, result.Merged)
}

func TestDetectDuplicates_NotFound(t *testing.T) {
	uc := NewDetectDuplicatesUseCase(repoWith(), &mockActivityRepository{}, &passthroughTx{}, 0.75, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), DetectDuplicatesCommand{ComplaintID: 99})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}
