package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/mbonimpa/agrigate/internal/errors"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/services"
)

// ApplicationHandler handles application listing and the approval, rejection,
// and transfer workflows.
type ApplicationHandler struct {
	service services.ApplicationService
}

// NewApplicationHandler creates a new ApplicationHandler instance.
func NewApplicationHandler(service services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		service: service,
	}
}

// FilterRequest represents the application filter plus pagination. All filter
// fields are optional; an empty filter is an unfiltered listing.
type FilterRequest struct {
	OrganizationID string                 `json:"organizationId"`
	ServiceID      string                 `json:"serviceId"`
	ApprovalStatus *int                   `json:"approvalStatus" binding:"omitempty,min=1,max=3"`
	Location       *models.LocationFilter `json:"location"`
	From           string                 `json:"from"`
	To             string                 `json:"to"`
	Page           int                    `json:"page" binding:"omitempty,min=1"`
	PageSize       int                    `json:"pageSize" binding:"omitempty,min=1,max=100"`
}

// ApproveRequest represents an approval decision. The current status guards
// against deciding an already-decided application.
type ApproveRequest struct {
	CurrentStatus int `json:"currentStatus" binding:"required,min=1,max=3"`
}

// RejectRequest represents a rejection decision with its mandatory reason.
type RejectRequest struct {
	CurrentStatus int    `json:"currentStatus" binding:"required,min=1,max=3"`
	Reason        string `json:"reason" binding:"required,min=5"`
}

// TransferRequest represents a batch reassignment to another partner/service.
type TransferRequest struct {
	ServiceID      string   `json:"serviceId" binding:"required"`
	PartnerID      string   `json:"partnerId" binding:"required"`
	Applications   []string `json:"applications" binding:"required,min=1"`
	TransferReason string   `json:"transferReason"`
}

// Filter handles POST /api/v1/applications/filter.
func (h *ApplicationHandler) Filter(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	snap, err := h.service.List(c.Request.Context(), viewKey(c, "applications"), filterFromRequest(req), req.Page, req.PageSize)
	if err != nil {
		respondServiceError(c, "Failed to list applications", err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// Approve handles PUT /api/v1/applications/:id/approve.
func (h *ApplicationHandler) Approve(c *gin.Context) {
	if !requireAccess(c, ruleDecide) {
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.service.Approve(c.Request.Context(), c.Param("id"), models.ApprovalStatus(req.CurrentStatus))
	if err != nil {
		if errors.Is(err, services.ErrNotPending) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		respondServiceError(c, "Failed to approve application", err)
		return
	}

	respondWorkflow(c, result)
}

// Reject handles PUT /api/v1/applications/:id/reject.
func (h *ApplicationHandler) Reject(c *gin.Context) {
	if !requireAccess(c, ruleDecide) {
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.service.Reject(c.Request.Context(), c.Param("id"), models.ApprovalStatus(req.CurrentStatus), req.Reason)
	if err != nil {
		if errors.Is(err, services.ErrNotPending) || errors.Is(err, services.ErrReasonTooShort) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		respondServiceError(c, "Failed to reject application", err)
		return
	}

	respondWorkflow(c, result)
}

// Transfer handles PUT /api/v1/applications/transfer.
func (h *ApplicationHandler) Transfer(c *gin.Context) {
	if !requireAccess(c, ruleTransfer) {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	result, err := h.service.Transfer(c.Request.Context(), services.TransferInput{
		ServiceID:      req.ServiceID,
		PartnerID:      req.PartnerID,
		ApplicationIDs: req.Applications,
		Reason:         req.TransferReason,
	})
	if err != nil {
		if errors.Is(err, services.ErrTransferTargetMissing) || errors.Is(err, services.ErrNoApplications) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		respondServiceError(c, "Failed to transfer applications", err)
		return
	}

	respondWorkflow(c, result)
}

// Report handles POST /api/v1/applications/reports.
// The filter body narrows the report; the backend generates the CSV.
func (h *ApplicationHandler) Report(c *gin.Context) {
	if !requireAccess(c, ruleReport) {
		return
	}

	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	data, filename, err := h.service.Report(c.Request.Context(), filterFromRequest(req))
	if err != nil {
		respondServiceError(c, "Failed to download report", err)
		return
	}

	csvAttachment(c, filename, data)
}

func filterFromRequest(req FilterRequest) models.ApplicationFilter {
	filter := models.ApplicationFilter{
		OrganizationID: req.OrganizationID,
		ServiceID:      req.ServiceID,
		Location:       req.Location,
		From:           req.From,
		To:             req.To,
	}
	if req.ApprovalStatus != nil {
		status := models.ApprovalStatus(*req.ApprovalStatus)
		filter.ApprovalStatus = &status
	}
	return filter
}
