package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/mappers"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/models"
	"github.com/civicpulse/civicpulse/internal/shared/db"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

type ComplaintRepository struct {
	db     *gorm.DB
	mapper mappers.ComplaintMapper
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{
		db:     db,
		mapper: mappers.NewComplaintMapper(),
	}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	model := r.mapper.ToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	return c.SetID(model.ID)
}

// Update writes every column, zero values included, so cleared fields such
// as resolved_at are persisted. The write only lands on a row that is still
// unmerged and still at the version c was loaded with.
func (r *ComplaintRepository) Update(ctx context.Context, c *complaint.Complaint) error {
	model := r.mapper.ToModel(c)
	model.Version = c.Version() + 1
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.
		Model(&models.ComplaintModel{}).
		Where("id = ? AND version = ? AND is_merged = ?", model.ID, c.Version(), false).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return r.rejectedUpdate(tx, model.ID)
	}

	c.IncrementVersion()
	return nil
}

// rejectedUpdate explains why an update matched no row.
func (r *ComplaintRepository) rejectedUpdate(tx *gorm.DB, id uint) error {
	var current models.ComplaintModel
	if err := tx.Select("id", "is_merged").Where("id = ?", id).Take(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("complaint %d: %w", id, complaint.ErrComplaintNotFound)
		}
		return fmt.Errorf("failed to check complaint %d: %w", id, err)
	}
	if current.IsMerged {
		return fmt.Errorf("complaint %d: %w", id, complaint.ErrComplaintMerged)
	}
	return fmt.Errorf("complaint %d: %w", id, complaint.ErrComplaintModified)
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id uint) (*complaint.Complaint, error) {
	return r.getByID(db.GetTxFromContext(ctx, r.db), id)
}

// GetByIDForUpdate takes a row lock. SQLite has no row locks and serializes
// writers instead, so the clause is dropped there.
func (r *ComplaintRepository) GetByIDForUpdate(ctx context.Context, id uint) (*complaint.Complaint, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	return r.getByID(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *ComplaintRepository) getByID(tx *gorm.DB, id uint) (*complaint.Complaint, error) {
	var model models.ComplaintModel
	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("complaint %d: %w", id, complaint.ErrComplaintNotFound)
		}
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *ComplaintRepository) List(ctx context.Context, filter complaint.ComplaintFilter) ([]*complaint.Complaint, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.ComplaintModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Ward != "" {
		query = query.Where("ward = ?", filter.Ward)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.Int())
	}
	if filter.AssignedTo != "" {
		query = query.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.CitizenID != nil {
		query = query.Where("citizen_id = ?", *filter.CitizenID)
	}
	if !filter.IncludeMerged {
		query = query.Where("is_merged = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count complaints: %w", err)
	}

	pagination := utils.NewPagination(filter.Page, filter.PageSize)

	var items []*models.ComplaintModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list complaints: %w", err)
	}

	complaints, err := r.mapper.ToDomainList(items)
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

func (r *ComplaintRepository) ListMergeCandidates(ctx context.Context, ward string, excludeID uint) ([]*complaint.Complaint, error) {
	var items []*models.ComplaintModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("ward = ? AND is_merged = ? AND id <> ?", ward, false, excludeID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list merge candidates: %w", err)
	}
	return r.mapper.ToDomainList(items)
}

func (r *ComplaintRepository) ListSLAOverdue(ctx context.Context, now time.Time) ([]*complaint.Complaint, error) {
	var items []*models.ComplaintModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status <> ? AND is_merged = ? AND is_sla_breached = ? AND expected_resolution_date < ?",
			vo.StatusResolved.String(), false, false, now.UnixMilli()).
		Order("expected_resolution_date ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list overdue complaints: %w", err)
	}
	return r.mapper.ToDomainList(items)
}

func (r *ComplaintRepository) ListMergedInto(ctx context.Context, targetID uint) ([]*complaint.Complaint, error) {
	var items []*models.ComplaintModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("merged_into_id = ?", targetID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list merged complaints: %w", err)
	}
	return r.mapper.ToDomainList(items)
}
