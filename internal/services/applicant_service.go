package services

import (
	"context"
	"fmt"

	"github.com/mbonimpa/agrigate/internal/logger"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/query"
	"github.com/mbonimpa/agrigate/internal/upstream"
)

// ApplicantClient is the slice of the backend API the applicant service needs.
type ApplicantClient interface {
	ListApplicants(ctx context.Context, q upstream.ApplicantQuery) (*upstream.ApplicantPage, error)
	ApplicantReport(ctx context.Context, q upstream.ApplicantQuery) ([]byte, error)
}

// ApplicantService drives the applicant list view and its CSV report.
type ApplicantService interface {
	// List fetches one page of applicants through the per-view query
	// controller. Filters are passed through to the backend as-is and each
	// call's map is authoritative for the view; an empty map is an unfiltered
	// listing and clears any filters a previous request stored.
	List(ctx context.Context, view string, filters map[string]string, page, pageSize int) (query.Snapshot[models.Applicant], error)

	// Report downloads the applicant CSV report for the given filters,
	// returning the file contents and the download filename.
	Report(ctx context.Context, filters map[string]string) ([]byte, string, error)
}

type applicantService struct {
	client ApplicantClient
	views  *query.Registry[models.Applicant]
	log    *logger.Logger
}

// NewApplicantService creates a new instance of ApplicantService.
func NewApplicantService(client ApplicantClient, log *logger.Logger) ApplicantService {
	s := &applicantService{
		client: client,
		log:    log,
	}
	s.views = query.NewRegistry(s.fetchPage)
	return s
}

func (s *applicantService) List(ctx context.Context, view string, filters map[string]string, page, pageSize int) (query.Snapshot[models.Applicant], error) {
	snap, err := s.views.For(view).Refresh(ctx, query.Request{
		Filters:  filters,
		Page:     page,
		PageSize: pageSize,
		Filtered: true,
	})
	if err != nil {
		s.log.Error("Failed to list applicants", err, map[string]interface{}{
			"view": view,
			"page": page,
		})
		return snap, fmt.Errorf("failed to list applicants: %w", err)
	}
	return snap, nil
}

func (s *applicantService) Report(ctx context.Context, filters map[string]string) ([]byte, string, error) {
	data, err := s.client.ApplicantReport(ctx, upstream.ApplicantQuery{Filters: filters})
	if err != nil {
		s.log.Error("Failed to download applicant report", err, nil)
		return nil, "", fmt.Errorf("failed to download applicant report: %w", err)
	}
	return data, "reports", nil
}

func (s *applicantService) fetchPage(ctx context.Context, q query.Query) ([]models.Applicant, int, error) {
	page, err := s.client.ListApplicants(ctx, upstream.ApplicantQuery{
		Filters:  q.Filters,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Data, page.Meta.Total, nil
}
