package complaint

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civicpulse/civicpulse/internal/application/complaint/usecases"
	"github.com/civicpulse/civicpulse/internal/shared/authorization"
	"github.com/civicpulse/civicpulse/internal/shared/constants"
	"github.com/civicpulse/civicpulse/internal/shared/logger"
	"github.com/civicpulse/civicpulse/internal/shared/utils"
)

type Handler struct {
	createUC   usecases.CreateComplaintExecutor
	getUC      usecases.GetComplaintExecutor
	listUC     usecases.ListComplaintsExecutor
	updateUC   usecases.UpdateComplaintExecutor
	assignUC   usecases.AssignComplaintExecutor
	statusUC   usecases.ChangeStatusExecutor
	mergeUC    usecases.MergeComplaintsExecutor
	upvoteUC   usecases.UpvoteComplaintExecutor
	scanSLAsUC usecases.ScanSLAsExecutor
	logger     logger.Interface
}

func NewHandler(
	createUC usecases.CreateComplaintExecutor,
	getUC usecases.GetComplaintExecutor,
	listUC usecases.ListComplaintsExecutor,
	updateUC usecases.UpdateComplaintExecutor,
	assignUC usecases.AssignComplaintExecutor,
	statusUC usecases.ChangeStatusExecutor,
	mergeUC usecases.MergeComplaintsExecutor,
	upvoteUC usecases.UpvoteComplaintExecutor,
	scanSLAsUC usecases.ScanSLAsExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		createUC:   createUC,
		getUC:      getUC,
		listUC:     listUC,
		updateUC:   updateUC,
		assignUC:   assignUC,
		statusUC:   statusUC,
		mergeUC:    mergeUC,
		upvoteUC:   upvoteUC,
		scanSLAsUC: scanSLAsUC,
		logger:     logger,
	}
}

// CreateComplaint handles POST /api/complaints
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create complaint", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), req.ToCommand(
		c.GetUint(constants.ContextKeyUserID),
		c.GetString(constants.ContextKeyUserName),
	))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Complaint registered successfully")
}

// GetComplaint handles GET /api/complaints/:id
func (h *Handler) GetComplaint(c *gin.Context) {
	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetComplaintQuery{
		ComplaintID: complaintID,
		UserID:      c.GetUint(constants.ContextKeyUserID),
		Role:        callerRole(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListComplaints handles GET /api/complaints
func (h *Handler) ListComplaints(c *gin.Context) {
	query, err := parseListComplaintsQuery(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	query.UserID = c.GetUint(constants.ContextKeyUserID)
	query.Role = callerRole(c)

	result, err := h.listUC.Execute(c.Request.Context(), *query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Complaints, result.Total, result.Page, result.PageSize)
}

// UpdateComplaint handles PATCH /api/complaints/:id
func (h *Handler) UpdateComplaint(c *gin.Context) {
	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update complaint", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.updateUC.Execute(c.Request.Context(), req.ToCommand(complaintID, actorName(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Complaint updated successfully", result)
}

// AssignComplaint handles PATCH /api/complaints/:id/assign
func (h *Handler) AssignComplaint(c *gin.Context) {
	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.assignUC.Execute(c.Request.Context(), usecases.AssignComplaintCommand{
		ComplaintID: complaintID,
		AssignedTo:  req.AssignedTo,
		Department:  req.AssignedDepartment,
		Actor:       actorName(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Complaint assigned successfully", result)
}

// ChangeStatus handles PATCH /api/complaints/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for change status", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.statusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		ComplaintID: complaintID,
		Status:      req.Status,
		Note:        req.Note,
		Actor:       actorName(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Complaint status updated", result)
}

// MergeComplaints handles POST /api/complaints/merge
func (h *Handler) MergeComplaints(c *gin.Context) {
	var req MergeComplaintsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.mergeUC.Execute(c.Request.Context(), usecases.MergeComplaintsCommand{
		SourceID: req.SourceID,
		TargetID: req.TargetID,
		Actor:    actorName(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// UpvoteComplaint handles POST /api/complaints/:id/upvote
func (h *Handler) UpvoteComplaint(c *gin.Context) {
	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.upvoteUC.Execute(c.Request.Context(), usecases.UpvoteComplaintCommand{
		ComplaintID: complaintID,
		UserID:      c.GetUint(constants.ContextKeyUserID),
		UserName:    c.GetString(constants.ContextKeyUserName),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// ScanSLAs handles POST /api/admin/scan-slas
func (h *Handler) ScanSLAs(c *gin.Context) {
	escalated, err := h.scanSLAsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK,
		fmt.Sprintf("SLA scan complete. %d complaints escalated.", escalated),
		gin.H{"escalated": escalated},
	)
}

func callerRole(c *gin.Context) authorization.UserRole {
	return authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole))
}

// actorName is what admin actions record on the activity trail.
func actorName(c *gin.Context) string {
	if name := c.GetString(constants.ContextKeyUserName); name != "" {
		return name
	}
	return fmt.Sprintf("admin:%d", c.GetUint(constants.ContextKeyUserID))
}
