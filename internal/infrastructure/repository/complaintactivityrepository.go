package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/mappers"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/models"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	"github.com/civicpulse/civicpulse/internal/shared/mapper"
)

// ComplaintActivityRepository is append-only; entries are never updated.
type ComplaintActivityRepository struct {
	db     *gorm.DB
	mapper mappers.ComplaintMapper
}

func NewComplaintActivityRepository(db *gorm.DB) *ComplaintActivityRepository {
	return &ComplaintActivityRepository{
		db:     db,
		mapper: mappers.NewComplaintMapper(),
	}
}

func (r *ComplaintActivityRepository) Append(ctx context.Context, activities []*complaint.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	rows := mapper.MapSlice(activities, r.mapper.ActivityToModel)
	if err := db.GetTxFromContext(ctx, r.db).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append complaint activities: %w", err)
	}

	for i, row := range rows {
		if err := activities[i].SetID(row.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ComplaintActivityRepository) ListByComplaint(ctx context.Context, complaintID uint) ([]*complaint.Activity, error) {
	var rows []*models.ComplaintActivityModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaint activities: %w", err)
	}

	return mapper.MapSlicePtrWithID(rows, r.mapper.ActivityToDomain, func(m *models.ComplaintActivityModel) uint {
		return m.ID
	})
}
