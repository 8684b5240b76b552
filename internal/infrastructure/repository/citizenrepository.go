package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/mappers"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/models"
	"github.com/civicpulse/civicpulse/internal/shared/db"
)

type CitizenRepository struct {
	db     *gorm.DB
	mapper mappers.ComplaintMapper
}

func NewCitizenRepository(db *gorm.DB) *CitizenRepository {
	return &CitizenRepository{
		db:     db,
		mapper: mappers.NewComplaintMapper(),
	}
}

func (r *CitizenRepository) GetByID(ctx context.Context, id uint) (*complaint.Citizen, error) {
	var model models.CitizenModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("citizen %d: %w", id, complaint.ErrCitizenNotFound)
		}
		return nil, fmt.Errorf("failed to find citizen: %w", err)
	}
	return r.mapper.CitizenToDomain(&model)
}

// Upsert creates the citizen or refreshes its display name. Points are
// never overwritten.
func (r *CitizenRepository) Upsert(ctx context.Context, citizen *complaint.Citizen) error {
	model := r.mapper.CitizenToModel(citizen)
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert citizen: %w", err)
	}
	return nil
}

func (r *CitizenRepository) AwardPoints(ctx context.Context, citizenID uint, delta int) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.CitizenModel{}).
		Where("id = ?", citizenID).
		Update("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return fmt.Errorf("failed to award citizen points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("citizen %d: %w", citizenID, complaint.ErrCitizenNotFound)
	}
	return nil
}
