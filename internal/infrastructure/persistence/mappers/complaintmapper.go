package mappers

import (
	"fmt"
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	vo "github.com/civicpulse/civicpulse/internal/domain/complaint/valueobjects"
	"github.com/civicpulse/civicpulse/internal/infrastructure/persistence/models"
	"github.com/civicpulse/civicpulse/internal/shared/mapper"
)

// ComplaintMapper converts between the complaint aggregate, its activity
// entries, citizens and their persistence models.
type ComplaintMapper interface {
	ToModel(c *complaint.Complaint) *models.ComplaintModel
	ToDomain(model *models.ComplaintModel) (*complaint.Complaint, error)
	ToDomainList(items []*models.ComplaintModel) ([]*complaint.Complaint, error)

	ActivityToModel(a *complaint.Activity) *models.ComplaintActivityModel
	ActivityToDomain(model *models.ComplaintActivityModel) (*complaint.Activity, error)

	CitizenToModel(c *complaint.Citizen) *models.CitizenModel
	CitizenToDomain(model *models.CitizenModel) (*complaint.Citizen, error)
}

type ComplaintMapperImpl struct{}

func NewComplaintMapper() ComplaintMapper {
	return &ComplaintMapperImpl{}
}

func (m *ComplaintMapperImpl) ToModel(c *complaint.Complaint) *models.ComplaintModel {
	assignment := c.Assignment()
	model := &models.ComplaintModel{
		ID:                     c.ID(),
		Title:                  c.Title(),
		Description:            c.Description(),
		Ward:                   c.Ward(),
		Category:               c.Category().String(),
		Priority:               c.Priority().Int(),
		PriorityLabel:          c.PriorityLabel().String(),
		Status:                 c.Status().String(),
		CitizenID:              c.CitizenID(),
		AssignedTo:             assignment.AssignedTo,
		AssignedDepartment:     assignment.Department,
		ReportsCount:           c.ReportsCount(),
		Upvotes:                c.Upvotes(),
		ImpactScore:            c.ImpactScore(),
		AIConfidenceScore:      c.AIConfidenceScore(),
		AISimilarityScore:      c.AISimilarityScore(),
		IsMerged:               c.IsMerged(),
		MergedIntoID:           c.MergedIntoID(),
		ExpectedResolutionDate: c.ExpectedResolutionDate().UnixMilli(),
		IsSLABreached:          c.IsSLABreached(),
		EscalationLevel:        c.EscalationLevel(),
		Version:                c.Version(),
		CreatedAt:              c.CreatedAt().UnixMilli(),
		UpdatedAt:              c.UpdatedAt().UnixMilli(),
	}

	if loc := c.Location(); loc != nil {
		lat, lng := loc.Latitude, loc.Longitude
		model.Latitude = &lat
		model.Longitude = &lng
	}
	if c.ResolvedAt() != nil {
		resolved := c.ResolvedAt().UnixMilli()
		model.ResolvedAt = &resolved
	}

	return model
}

func (m *ComplaintMapperImpl) ToDomain(model *models.ComplaintModel) (*complaint.Complaint, error) {
	category, err := vo.NewCategory(model.Category)
	if err != nil {
		return nil, err
	}
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, err
	}
	label, err := vo.NewPriorityLabel(model.PriorityLabel)
	if err != nil {
		return nil, err
	}
	status, err := vo.NewStatus(model.Status)
	if err != nil {
		return nil, err
	}

	var location *complaint.Location
	if model.Latitude != nil && model.Longitude != nil {
		location = &complaint.Location{Latitude: *model.Latitude, Longitude: *model.Longitude}
	}

	var resolvedAt *time.Time
	if model.ResolvedAt != nil {
		t := millisToTime(*model.ResolvedAt)
		resolvedAt = &t
	}

	c, err := complaint.ReconstructComplaint(
		model.ID,
		model.Title,
		model.Description,
		model.Ward,
		category,
		priority,
		label,
		status,
		model.CitizenID,
		location,
		complaint.Assignment{
			AssignedTo: model.AssignedTo,
			Department: model.AssignedDepartment,
		},
		complaint.Scores{
			ReportsCount:      model.ReportsCount,
			Upvotes:           model.Upvotes,
			ImpactScore:       model.ImpactScore,
			AIConfidenceScore: model.AIConfidenceScore,
			AISimilarityScore: model.AISimilarityScore,
		},
		model.IsMerged,
		model.MergedIntoID,
		complaint.SLAState{
			ExpectedResolutionDate: millisToTime(model.ExpectedResolutionDate),
			Breached:               model.IsSLABreached,
			EscalationLevel:        model.EscalationLevel,
		},
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		resolvedAt,
		model.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct complaint %d: %w", model.ID, err)
	}
	return c, nil
}

func (m *ComplaintMapperImpl) ToDomainList(items []*models.ComplaintModel) ([]*complaint.Complaint, error) {
	return mapper.MapSlicePtrWithID(items, m.ToDomain, func(model *models.ComplaintModel) uint {
		return model.ID
	})
}

func (m *ComplaintMapperImpl) ActivityToModel(a *complaint.Activity) *models.ComplaintActivityModel {
	return &models.ComplaintActivityModel{
		ID:            a.ID(),
		ComplaintID:   a.ComplaintID(),
		Action:        string(a.Action()),
		PreviousValue: a.PreviousValue(),
		NewValue:      a.NewValue(),
		Details:       a.Details(),
		Actor:         a.Actor(),
		CreatedAt:     a.CreatedAt().UnixMilli(),
	}
}

func (m *ComplaintMapperImpl) ActivityToDomain(model *models.ComplaintActivityModel) (*complaint.Activity, error) {
	return complaint.ReconstructActivity(
		model.ID,
		model.ComplaintID,
		complaint.ActivityAction(model.Action),
		model.PreviousValue,
		model.NewValue,
		model.Details,
		model.Actor,
		millisToTime(model.CreatedAt),
	)
}

func (m *ComplaintMapperImpl) CitizenToModel(c *complaint.Citizen) *models.CitizenModel {
	return &models.CitizenModel{
		ID:        c.ID(),
		Name:      c.Name(),
		Points:    c.Points(),
		CreatedAt: c.CreatedAt().UnixMilli(),
		UpdatedAt: c.UpdatedAt().UnixMilli(),
	}
}

func (m *ComplaintMapperImpl) CitizenToDomain(model *models.CitizenModel) (*complaint.Citizen, error) {
	return complaint.ReconstructCitizen(
		model.ID,
		model.Name,
		model.Points,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	)
}

func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}
