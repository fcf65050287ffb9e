package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/mbonimpa/agrigate/internal/errors"
	"github.com/mbonimpa/agrigate/internal/middleware"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/services"
)

// ApplicantHandler handles applicant listing, land edits, and the applicant
// CSV report.
type ApplicantHandler struct {
	applicants   services.ApplicantService
	applications services.ApplicationService
}

// NewApplicantHandler creates a new ApplicantHandler instance.
func NewApplicantHandler(applicants services.ApplicantService, applications services.ApplicationService) *ApplicantHandler {
	return &ApplicantHandler{
		applicants:   applicants,
		applications: applications,
	}
}

// ListRequest represents the pagination parameters of list endpoints.
// Remaining query parameters are treated as filter fields and passed through
// to the backend unchanged.
type ListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// LandEditRequest represents the land field subset editable on an application.
type LandEditRequest struct {
	TotalLandSizeOwned    *float64 `json:"totalLandSizeOwned" binding:"omitempty,gte=0"`
	TotalLandSizeAccessed *float64 `json:"totalLandSizeAccessed" binding:"omitempty,gte=0"`
	LandOwnership         *int     `json:"landOwnership" binding:"omitempty,min=1,max=3"`
}

// List handles GET /api/v1/applicants.
// Filters arrive as query parameters alongside page/pageSize and are passed
// through to the backend as-is.
func (h *ApplicantHandler) List(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	snap, err := h.applicants.List(c.Request.Context(), viewKey(c, "applicants"), filterQueryParams(c), req.Page, req.PageSize)
	if err != nil {
		respondServiceError(c, "Failed to list applicants", err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// EditLand handles PUT /api/v1/applicants/:id/land.
// The id is the application carrying the land fields.
func (h *ApplicantHandler) EditLand(c *gin.Context) {
	if !requireAccess(c, ruleEditLand) {
		return
	}

	var req LandEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	edit := models.LandEdit{
		TotalLandSizeOwned:    req.TotalLandSizeOwned,
		TotalLandSizeAccessed: req.TotalLandSizeAccessed,
	}
	if req.LandOwnership != nil {
		ownership := models.LandOwnership(*req.LandOwnership)
		edit.LandOwnership = &ownership
	}

	result, err := h.applications.EditLand(c.Request.Context(), c.Param("id"), edit)
	if err != nil {
		respondServiceError(c, "Failed to update land fields", err)
		return
	}

	respondWorkflow(c, result)
}

// Report handles GET /api/v1/applicants/reports.
// Streams the backend-generated CSV as a download.
func (h *ApplicantHandler) Report(c *gin.Context) {
	if !requireAccess(c, ruleReport) {
		return
	}

	data, filename, err := h.applicants.Report(c.Request.Context(), filterQueryParams(c))
	if err != nil {
		respondServiceError(c, "Failed to download report", err)
		return
	}

	csvAttachment(c, filename, data)
}

// filterQueryParams collects the filter fields from the query string,
// excluding the pagination parameters.
func filterQueryParams(c *gin.Context) map[string]string {
	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if key == "page" || key == "pageSize" {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filters[key] = values[0]
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

// viewKey names the per-session query controller for a list view, so
// consecutive requests from the same user share filter state.
func viewKey(c *gin.Context, view string) string {
	sess := middleware.GetSession(c)
	if sess == nil {
		return view
	}
	return sess.Token + ":" + view
}
