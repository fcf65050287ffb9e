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

// ApplicantQuery is a page request over the applicant listing. Filters are
// passed through as query parameters; an empty map means no filter.
type ApplicantQuery struct {
	Filters  map[string]string
	Page     int
	PageSize int
}

// ApplicantPage is one page of applicants plus pagination metadata.
type ApplicantPage struct {
	Data []models.Applicant `json:"data"`
	Meta models.PageMeta    `json:"meta"`
}

// ListApplicants fetches one page of applicants. A 404 from the backend is
// returned as an empty page, not an error.
func (c *Client) ListApplicants(ctx context.Context, q ApplicantQuery) (*ApplicantPage, error) {
	params := applicantQueryValues(q)

	var page ApplicantPage
	err := c.do(ctx, http.MethodGet, "/api/v1/applicants", params, nil, &page)
	if errors.Is(err, ErrNotFound) {
		return &ApplicantPage{Data: []models.Applicant{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ApplicantReport downloads the applicant CSV report for the given filters,
// decoded from the backend's base64 payload.
func (c *Client) ApplicantReport(ctx context.Context, q ApplicantQuery) ([]byte, error) {
	params := applicantQueryValues(q)

	var file fileEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/v1/applicants/reports", params, nil, &file); err != nil {
		return nil, err
	}

	decoded, err := base64.StdEncoding.DecodeString(file.File)
	if err != nil {
		return nil, fmt.Errorf("%w: report payload is not valid base64", ErrBadShape)
	}
	return decoded, nil
}

func applicantQueryValues(q ApplicantQuery) url.Values {
	params := url.Values{}
	for field, value := range q.Filters {
		if value != "" {
			params.Set(field, value)
		}
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return params
}
