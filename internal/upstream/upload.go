package upstream

import (
	"context"
	"net/http"

	"github.com/mbonimpa/agrigate/internal/models"
)

// UploadRequest is the bulk-upload payload: a base64-encoded CSV plus the
// target service and the business type the rows are expected to match.
type UploadRequest struct {
	ServiceID    string              `json:"serviceId"`
	File         string              `json:"file"`
	BusinessType models.BusinessType `json:"businessType"`
}

// SubmitUpload sends a validated applicant batch to the backend. The
// backend's own ingestion is the source of truth for what is actually
// accepted; the gateway's row count is only a preview.
func (c *Client) SubmitUpload(ctx context.Context, req UploadRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/user/upload", nil, req, nil)
}
