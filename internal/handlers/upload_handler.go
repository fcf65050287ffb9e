package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/mbonimpa/agrigate/internal/errors"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/services"
)

// UploadHandler handles applicant bulk-upload validation and submission.
type UploadHandler struct {
	service services.UploadService
}

// NewUploadHandler creates a new UploadHandler instance.
func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// UploadForm represents the multipart fields accompanying the CSV file.
// Inspect only needs the business type; submission needs the service too.
type UploadForm struct {
	ServiceID    string `form:"serviceId"`
	BusinessType int    `form:"businessType" binding:"omitempty,oneof=1 2"`
}

// InspectResponse represents the row-count preview of a validated file.
// The count is advisory; the backend's ingestion decides what is accepted.
type InspectResponse struct {
	FileName string `json:"fileName"`
	Rows     int    `json:"rows"`
}

// Inspect handles POST /api/v1/uploads/inspect.
// Runs the local pre-submission checks and returns the data-row preview
// without touching the backend.
func (h *UploadHandler) Inspect(c *gin.Context) {
	if !requireAccess(c, ruleUpload) {
		return
	}

	in, ok := h.bindUpload(c)
	if !ok {
		return
	}

	rows, err := h.service.Validate(c.Request.Context(), *in)
	if err != nil {
		respondServiceError(c, "Failed to validate upload", err)
		return
	}

	c.JSON(http.StatusOK, InspectResponse{
		FileName: in.FileName,
		Rows:     rows,
	})
}

// Submit handles POST /api/v1/uploads.
// Re-validates the file and delivers it to the backend; a local refusal never
// produces a backend call.
func (h *UploadHandler) Submit(c *gin.Context) {
	if !requireAccess(c, ruleUpload) {
		return
	}

	in, ok := h.bindUpload(c)
	if !ok {
		return
	}

	result, err := h.service.Submit(c.Request.Context(), *in)
	if err != nil {
		respondServiceError(c, "Failed to submit upload", err)
		return
	}

	respondWorkflow(c, result)
}

// bindUpload reads the multipart form and file into an UploadInput.
// Writes the error response and returns ok=false on failure.
func (h *UploadHandler) bindUpload(c *gin.Context) (*services.UploadInput, bool) {
	var form UploadForm
	if err := c.ShouldBind(&form); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return nil, false
		}
		apierrors.BadRequest(c, "Invalid form fields", nil)
		return nil, false
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.BadRequest(c, "A CSV file is required", nil)
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return nil, false
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to read uploaded file", err)
		return nil, false
	}

	return &services.UploadInput{
		FileName:     fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		Contents:     contents,
		ServiceID:    form.ServiceID,
		BusinessType: models.BusinessType(form.BusinessType),
	}, true
}
