package upstream

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mbonimpa/agrigate/internal/models"
)

// ApplicationPage is one page of applications plus pagination metadata.
type ApplicationPage struct {
	Data []models.Application `json:"data"`
	Meta models.PageMeta      `json:"meta"`
}

// ApprovalUpdate is the payload for the approve endpoint. A rejection carries
// the reason; an approval leaves it empty.
type ApprovalUpdate struct {
	ApprovalStatus  models.ApprovalStatus `json:"approvalStatus"`
	RejectionReason string                `json:"rejectionReason,omitempty"`
}

// TransferRequest reassigns a batch of applications to another partner
// organization and service. Approval status is unchanged by a transfer.
type TransferRequest struct {
	ServiceID      string   `json:"serviceId"`
	PartnerID      string   `json:"partnerId"`
	Applications   []string `json:"applications"`
	TransferReason string   `json:"transferReason,omitempty"`
}

// FilterApplications fetches one page of applications matching the filter.
// A 404 from the backend is returned as an empty page, not an error.
func (c *Client) FilterApplications(ctx context.Context, f models.ApplicationFilter, page, pageSize int) (*ApplicationPage, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}

	var result ApplicationPage
	err := c.do(ctx, http.MethodPost, "/api/v1/application/filter", params, f, &result)
	if errors.Is(err, ErrNotFound) {
		return &ApplicationPage{Data: []models.Application{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ApproveApplication applies an approve/reject status update to one application.
func (c *Client) ApproveApplication(ctx context.Context, id string, update ApprovalUpdate) error {
	path := fmt.Sprintf("/api/v1/application/id/%s/approve", url.PathEscape(id))
	return c.do(ctx, http.MethodPut, path, nil, update, nil)
}

// EditApplicationLand updates the land-size field subset on one application.
func (c *Client) EditApplicationLand(ctx context.Context, id string, edit models.LandEdit) error {
	path := fmt.Sprintf("/api/v1/application/id/%s/edit", url.PathEscape(id))
	return c.do(ctx, http.MethodPut, path, nil, edit, nil)
}

// TransferApplications reassigns the given applications in one call.
func (c *Client) TransferApplications(ctx context.Context, req TransferRequest) error {
	return c.do(ctx, http.MethodPut, "/api/v1/application/transfer", nil, req, nil)
}

// ApplicationReport downloads the application CSV report for the given
// filter, decoded from the backend's base64 payload.
func (c *Client) ApplicationReport(ctx context.Context, f models.ApplicationFilter) ([]byte, error) {
	var file fileEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/application/reports", nil, f, &file); err != nil {
		return nil, err
	}

	decoded, err := base64.StdEncoding.DecodeString(file.File)
	if err != nil {
		return nil, fmt.Errorf("%w: report payload is not valid base64", ErrBadShape)
	}
	return decoded, nil
}
