package dto

import (
	"time"

	"github.com/civicpulse/civicpulse/internal/domain/complaint"
	"github.com/civicpulse/civicpulse/internal/shared/mapper"
)

type ComplaintDTO struct {
	ID                     uint       `json:"id"`
	Title                  string     `json:"title"`
	Description            string     `json:"description"`
	Ward                   string     `json:"ward"`
	Category               string     `json:"category"`
	Priority               int        `json:"priority"`
	PriorityLabel          string     `json:"priority_label"`
	Status                 string     `json:"status"`
	CitizenID              uint       `json:"citizen_id"`
	Latitude               *float64   `json:"latitude,omitempty"`
	Longitude              *float64   `json:"longitude,omitempty"`
	AssignedTo             string     `json:"assigned_to,omitempty"`
	AssignedDepartment     string     `json:"assigned_department,omitempty"`
	ReportsCount           int        `json:"reports_count"`
	Upvotes                int        `json:"upvotes"`
	ImpactScore            float64    `json:"impact_score"`
	IsMerged               bool       `json:"is_merged"`
	MergedIntoID           *uint      `json:"merged_into_id"`
	AIConfidenceScore      *float64   `json:"ai_confidence_score"`
	AISimilarityScore      *float64   `json:"ai_similarity_score"`
	IsSLABreached          bool       `json:"is_sla_breached"`
	EscalationLevel        int        `json:"escalation_level"`
	ExpectedResolutionDate time.Time  `json:"expected_resolution_date"`
	ResolvedAt             *time.Time `json:"resolved_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

type ActivityDTO struct {
	ID            uint      `json:"id"`
	ComplaintID   uint      `json:"complaint_id"`
	Action        string    `json:"action"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Details       string    `json:"details,omitempty"`
	Actor         string    `json:"actor"`
	CreatedAt     time.Time `json:"created_at"`
}

// ComplaintDetailDTO is a complaint with its audit trail and the IDs of the
// duplicates merged into it.
type ComplaintDetailDTO struct {
	*ComplaintDTO
	Activities         []*ActivityDTO `json:"activities"`
	MergedComplaintIDs []uint         `json:"merged_complaint_ids"`
}

func ToComplaintDTO(c *complaint.Complaint) *ComplaintDTO {
	if c == nil {
		return nil
	}

	out := &ComplaintDTO{
		ID:                     c.ID(),
		Title:                  c.Title(),
		Description:            c.Description(),
		Ward:                   c.Ward(),
		Category:               c.Category().String(),
		Priority:               c.Priority().Int(),
		PriorityLabel:          c.PriorityLabel().String(),
		Status:                 c.Status().String(),
		CitizenID:              c.CitizenID(),
		AssignedTo:             c.Assignment().AssignedTo,
		AssignedDepartment:     c.Assignment().Department,
		ReportsCount:           c.ReportsCount(),
		Upvotes:                c.Upvotes(),
		ImpactScore:            c.ImpactScore(),
		IsMerged:               c.IsMerged(),
		MergedIntoID:           c.MergedIntoID(),
		AIConfidenceScore:      c.AIConfidenceScore(),
		AISimilarityScore:      c.AISimilarityScore(),
		IsSLABreached:          c.IsSLABreached(),
		EscalationLevel:        c.EscalationLevel(),
		ExpectedResolutionDate: c.ExpectedResolutionDate(),
		ResolvedAt:             c.ResolvedAt(),
		CreatedAt:              c.CreatedAt(),
		UpdatedAt:              c.UpdatedAt(),
	}
	if loc := c.Location(); loc != nil {
		out.Latitude = &loc.Latitude
		out.Longitude = &loc.Longitude
	}
	return out
}

func ToComplaintDTOList(complaints []*complaint.Complaint) []*ComplaintDTO {
	if complaints == nil {
		return []*ComplaintDTO{}
	}
	return mapper.MapSlicePtrSkipNil(complaints, ToComplaintDTO)
}

func ToActivityDTO(a *complaint.Activity) *ActivityDTO {
	if a == nil {
		return nil
	}
	return &ActivityDTO{
		ID:            a.ID(),
		ComplaintID:   a.ComplaintID(),
		Action:        string(a.Action()),
		PreviousValue: a.PreviousValue(),
		NewValue:      a.NewValue(),
		Details:       a.Details(),
		Actor:         a.Actor(),
		CreatedAt:     a.CreatedAt(),
	}
}

func ToComplaintDetailDTO(c *complaint.Complaint, activities []*complaint.Activity, merged []*complaint.Complaint) *ComplaintDetailDTO {
	if c == nil {
		return nil
	}

	ids := make([]uint, 0, len(merged))
	for _, m := range merged {
		if m != nil {
			ids = append(ids, m.ID())
		}
	}

	activityDTOs := mapper.MapSlicePtrSkipNil(activities, ToActivityDTO)
	if activityDTOs == nil {
		activityDTOs = []*ActivityDTO{}
	}

	return &ComplaintDetailDTO{
		ComplaintDTO:       ToComplaintDTO(c),
		Activities:         activityDTOs,
		MergedComplaintIDs: ids,
	}
}
