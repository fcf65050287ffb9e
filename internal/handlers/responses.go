package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mbonimpa/agrigate/internal/errors"
	"github.com/mbonimpa/agrigate/internal/services"
	"github.com/mbonimpa/agrigate/internal/upload"
	"github.com/mbonimpa/agrigate/internal/upstream"
)

// WorkflowResponse is the envelope for backend-owned writes. The status field
// mirrors the backend's HTTP code so the dashboard can key its result modal
// off it: 2xx renders success, anything else failure with the message.
type WorkflowResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// respondWorkflow writes a workflow outcome, mirroring the backend's status.
func respondWorkflow(c *gin.Context, result *services.WorkflowResult) {
	c.JSON(result.StatusCode, WorkflowResponse{
		Status:  result.StatusCode,
		Message: result.Message,
		Success: result.Success,
	})
}

// respondServiceError maps service-layer failures onto the error envelope.
// Handlers first branch on their own sentinel errors; this covers the rest.
func respondServiceError(c *gin.Context, message string, err error) {
	if errors.Is(err, upstream.ErrNoSession) {
		apierrors.Forbidden(c, "Authentication required")
		return
	}

	var vErr *upload.ValidationError
	if errors.As(err, &vErr) {
		apierrors.BadRequest(c, vErr.Message, map[string]interface{}{
			"code": string(vErr.Code),
		})
		return
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		apierrors.Upstream(c, apiErr.StatusCode, apiErr.Message)
		return
	}

	apierrors.InternalServerError(c, message, err)
}

// csvAttachment writes CSV bytes as a file download.
func csvAttachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
