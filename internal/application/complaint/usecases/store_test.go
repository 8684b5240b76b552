package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/infrastructure/migration"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/models"
	"github.com/civicpulse/civicpulse/internal/infrastructure/repository"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	apperrors "github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
)

type sqliteFixture struct {
	gdb        *gorm.DB
	complaints *repository.ComplaintRepository
	activities *repository.ComplaintActivityRepository
	txMgr      *db.TransactionManager
}

func newSQLiteFixture(t *testing.T) *sqliteFixture {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))

	return &sqliteFixture{
		gdb:        gdb,
		complaints: repository.NewComplaintRepository(gdb),
		activities: repository.NewComplaintActivityRepository(gdb),
		txMgr:      db.NewTransactionManager(gdb),
	}
}

func (f *sqliteFixture) file(t *testing.T, title, ward string, citizenID uint) *complaint.Complaint {
	t.Helper()
	c, err := complaint.NewComplaint(title, "Garbage not collected near the market for days", ward,
		vo.CategoryGeneral, vo.PriorityUnset, citizenID, "citizen")
	require.NoError(t, err)
	require.NoError(t, f.complaints.Create(context.Background(), c))
	require.NoError(t, f.activities.Append(context.Background(), c.PendingActivities()))
	return c
}

func (f *sqliteFixture) reload(t *testing.T, id uint) *complaint.Complaint {
	t.Helper()
	c, err := f.complaints.GetByID(context.Background(), id)
	require.NoError(t, err)
	return c
}

func (f *sqliteFixture) saveStale(ctx context.Context, c *complaint.Complaint) error {
	store := newComplaintStore(f.complaints, f.activities, f.txMgr)
	return f.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return store.saveInTx(txCtx, c)
	})
}

func TestStore_StaleCopyCannotUndoManualMerge(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()

	x := f.file(t, "Garbage pile at market", "Jayanagar", 1)
	y := f.file(t, "Garbage heap at market", "Jayanagar", 2)

	stale := f.reload(t, x.ID())

	merge := NewMergeComplaintsUseCase(f.complaints, f.activities, f.txMgr, nil, logger.NewNop())
	_, err := merge.Execute(ctx, MergeComplaintsCommand{SourceID: x.ID(), TargetID: y.ID(), Actor: "ward-admin"})
	require.NoError(t, err)

	later := time.Now().UTC().Add(31 * 24 * time.Hour)
	require.True(t, stale.EscalateSLA(later))

	err = f.saveStale(ctx, stale)
	require.ErrorIs(t, err, complaint.ErrComplaintMerged)
	assert.True(t, apperrors.IsValidationError(rejectedWrite(err)))

	current := f.reload(t, x.ID())
	assert.True(t, current.IsMerged())
	assert.Equal(t, vo.StatusResolved, current.Status())
	require.NotNil(t, current.MergedIntoID())
	assert.Equal(t, y.ID(), *current.MergedIntoID())
	assert.False(t, current.IsSLABreached())
}

func TestStore_StaleCopyCannotResetAbsorbedReports(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()

	older := f.file(t, "Garbage pile at market", "Koramangala", 1)
	stale := f.reload(t, older.ID())
	newer := f.file(t, "Garbage pile at market", "Koramangala", 2)

	detect := NewDetectDuplicatesUseCase(f.complaints, f.activities, f.txMgr, 0.75, nil, logger.NewNop())
	result, err := detect.Execute(ctx, DetectDuplicatesCommand{ComplaintID: newer.ID()})
	require.NoError(t, err)
	require.True(t, result.Merged)
	require.Equal(t, older.ID(), result.TargetID)
	require.Equal(t, 2, f.reload(t, older.ID()).ReportsCount())

	triager := complaint.NewTriager(nil)
	require.True(t, stale.ApplyTriage(triager.Evaluate(stale)))

	err = f.saveStale(ctx, stale)
	require.ErrorIs(t, err, complaint.ErrComplaintModified)
	assert.Equal(t, apperrors.ErrorTypeConflict, apperrors.GetAppError(rejectedWrite(err)).Type)
	assert.Equal(t, 2, f.reload(t, older.ID()).ReportsCount())

	categorize := NewCategorizeComplaintUseCase(f.complaints, f.activities, f.txMgr, triager, nil, logger.NewNop())
	triaged, err := categorize.Execute(ctx, CategorizeComplaintCommand{ComplaintID: older.ID()})
	require.NoError(t, err)
	require.True(t, triaged.Applied)

	current := f.reload(t, older.ID())
	assert.Equal(t, 2, current.ReportsCount())
	assert.Equal(t, "Sanitation & SWM", current.Category().String())
	assert.NotEqual(t, vo.LabelPendingEvaluation, current.PriorityLabel())
}

// mergeAfterListing commits a merge between the SLA scan's listing and its
// writes.
type mergeAfterListing struct {
	*repository.ComplaintRepository
	afterList func()
}

func (r *mergeAfterListing) ListSLAOverdue(ctx context.Context, now time.Time) ([]*complaint.Complaint, error) {
	items, err := r.ComplaintRepository.ListSLAOverdue(ctx, now)
	if err == nil && r.afterList != nil {
		r.afterList()
	}
	return items, err
}

func TestScanSLAs_MergeAfterListingStaysMerged(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()

	x := f.file(t, "Garbage pile at market", "Jayanagar", 1)
	y := f.file(t, "Garbage heap at market", "Jayanagar", 2)
	past := time.Now().UTC().Add(-time.Hour).UnixMilli()
	require.NoError(t, f.gdb.Model(&models.ComplaintModel{}).
		Where("id IN ?", []uint{x.ID(), y.ID()}).
		Update("expected_resolution_date", past).Error)

	repo := &mergeAfterListing{ComplaintRepository: f.complaints}
	repo.afterList = func() {
		merge := NewMergeComplaintsUseCase(f.complaints, f.activities, f.txMgr, nil, logger.NewNop())
		_, err := merge.Execute(ctx, MergeComplaintsCommand{SourceID: x.ID(), TargetID: y.ID(), Actor: "ward-admin"})
		require.NoError(t, err)
	}

	scan := NewScanSLAsUseCase(repo, f.activities, f.txMgr, nil, logger.NewNop())
	count, err := scan.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	source := f.reload(t, x.ID())
	assert.True(t, source.IsMerged())
	assert.Equal(t, vo.StatusResolved, source.Status())
	assert.False(t, source.IsSLABreached())

	target := f.reload(t, y.ID())
	assert.True(t, target.IsSLABreached())
	assert.Equal(t, 2, target.ReportsCount())
}
