package complaint

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/civicpulse/civicpulse/internal/application/complaint/usecases"
	"github.com/civicpulse/civicpulse/internal/shared/errors"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

type CreateComplaintRequest struct {
	Title       string   `json:"title" binding:"required,notblank,max=200"`
	Description string   `json:"description" binding:"required,notblank,max=5000"`
	Locality    string   `json:"locality" binding:"required,notblank,max=100"`
	Category    string   `json:"category" binding:"omitempty,max=100"`
	Priority    int      `json:"priority" binding:"gte=0,lte=5"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,longitude"`
}

func (r *CreateComplaintRequest) ToCommand(citizenID uint, citizenName string) usecases.CreateComplaintCommand {
	return usecases.CreateComplaintCommand{
		Title:       r.Title,
		Description: r.Description,
		Ward:        r.Locality,
		Category:    r.Category,
		Priority:    r.Priority,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		CitizenID:   citizenID,
		CitizenName: citizenName,
	}
}

// UpdateComplaintRequest carries an admin edit; absent fields stay unchanged.
type UpdateComplaintRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,notblank,max=5000"`
	Category    *string `json:"category" binding:"omitempty,notblank,max=100"`
	Locality    *string `json:"locality" binding:"omitempty,notblank,max=100"`
	Note        string  `json:"note" binding:"max=1000"`
}

func (r *UpdateComplaintRequest) ToCommand(complaintID uint, actor string) usecases.UpdateComplaintCommand {
	return usecases.UpdateComplaintCommand{
		ComplaintID: complaintID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Ward:        r.Locality,
		Note:        r.Note,
		Actor:       actor,
	}
}

type AssignComplaintRequest struct {
	AssignedTo         string `json:"assigned_to" binding:"required,notblank,max=100"`
	AssignedDepartment string `json:"assigned_department" binding:"max=100"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending 'In Progress' Resolved"`
	Note   string `json:"note" binding:"max=1000"`
}

type MergeComplaintsRequest struct {
	SourceID uint `json:"source_id" binding:"required,gt=0"`
	TargetID uint `json:"target_id" binding:"required,gt=0"`
}

func parseComplaintID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid complaint ID")
	}
	return uint(id), nil
}

func parseListComplaintsQuery(c *gin.Context) (*usecases.ListComplaintsQuery, error) {
	pagination := utils.ParsePagination(c)
	query := &usecases.ListComplaintsQuery{
		Status:     strings.TrimSpace(c.Query("status")),
		Ward:       strings.TrimSpace(c.Query("locality")),
		AssignedTo: strings.TrimSpace(c.Query("assigned_to")),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	}

	if raw := c.Query("priority"); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewValidationError("Invalid priority")
		}
		query.Priority = &priority
	}

	if raw := c.Query("include_merged"); raw != "" {
		includeMerged, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.NewValidationError("Invalid include_merged")
		}
		query.IncludeMerged = includeMerged
	}

	return query, nil
}
