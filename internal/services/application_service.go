package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mbonimpa/agrigate/internal/logger"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/query"
	"github.com/mbonimpa/agrigate/internal/upstream"
)

// MinRejectionReasonLen is the minimum character count for a rejection reason.
const MinRejectionReasonLen = 5

// Service-level errors
var (
	ErrNotPending            = errors.New("only pending applications can be approved or rejected")
	ErrReasonTooShort        = errors.New("rejection reason must be at least 5 characters")
	ErrTransferTargetMissing = errors.New("a partner organization and service must be selected")
	ErrNoApplications        = errors.New("at least one application must be selected")
)

// ApplicationClient is the slice of the backend API the application service needs.
type ApplicationClient interface {
	FilterApplications(ctx context.Context, f models.ApplicationFilter, page, pageSize int) (*upstream.ApplicationPage, error)
	ApproveApplication(ctx context.Context, id string, update upstream.ApprovalUpdate) error
	EditApplicationLand(ctx context.Context, id string, edit models.LandEdit) error
	TransferApplications(ctx context.Context, req upstream.TransferRequest) error
	ApplicationReport(ctx context.Context, f models.ApplicationFilter) ([]byte, error)
}

// TransferInput reassigns a batch of applications to another partner's service.
type TransferInput struct {
	ServiceID      string
	PartnerID      string
	ApplicationIDs []string
	Reason         string
}

// ApplicationService drives the application list views and the approval,
// transfer, and land-edit workflows.
type ApplicationService interface {
	// List fetches one page of applications through the per-view query
	// controller. Each call's filter is authoritative for the view: an
	// all-zero filter is an unfiltered listing and clears any filters a
	// previous request stored.
	List(ctx context.Context, view string, filter models.ApplicationFilter, page, pageSize int) (query.Snapshot[models.Application], error)

	// Approve moves a PENDING application to APPROVED.
	// Returns ErrNotPending if the application is already decided.
	Approve(ctx context.Context, id string, current models.ApprovalStatus) (*WorkflowResult, error)

	// Reject moves a PENDING application to REJECTED with a reason.
	// Returns ErrNotPending or ErrReasonTooShort before any backend call.
	Reject(ctx context.Context, id string, current models.ApprovalStatus, reason string) (*WorkflowResult, error)

	// EditLand updates the land-size field subset of one application.
	EditLand(ctx context.Context, id string, edit models.LandEdit) (*WorkflowResult, error)

	// Transfer reassigns the selected applications in one backend call.
	// Returns ErrTransferTargetMissing or ErrNoApplications before any
	// backend call; partial transfers cannot happen.
	Transfer(ctx context.Context, input TransferInput) (*WorkflowResult, error)

	// Report downloads the application CSV report for the given filter,
	// returning the file contents and the download filename.
	Report(ctx context.Context, filter models.ApplicationFilter) ([]byte, string, error)
}

type applicationService struct {
	client ApplicationClient
	views  *query.Registry[models.Application]
	log    *logger.Logger
}

// NewApplicationService creates a new instance of ApplicationService.
func NewApplicationService(client ApplicationClient, log *logger.Logger) ApplicationService {
	s := &applicationService{
		client: client,
		log:    log,
	}
	s.views = query.NewRegistry(s.fetchPage)
	return s
}

func (s *applicationService) List(ctx context.Context, view string, filter models.ApplicationFilter, page, pageSize int) (query.Snapshot[models.Application], error) {
	snap, err := s.views.For(view).Refresh(ctx, query.Request{
		Filters:  filterParams(filter),
		Page:     page,
		PageSize: pageSize,
		Filtered: true,
	})
	if err != nil {
		s.log.Error("Failed to list applications", err, map[string]interface{}{
			"view": view,
			"page": page,
		})
		return snap, fmt.Errorf("failed to list applications: %w", err)
	}
	return snap, nil
}

func (s *applicationService) Approve(ctx context.Context, id string, current models.ApprovalStatus) (*WorkflowResult, error) {
	if current != models.StatusPending {
		s.log.Warn("Refusing approval of a decided application", map[string]interface{}{
			"application_id": id,
			"status":         current.Label(),
		})
		return nil, ErrNotPending
	}

	s.log.Info("Approving application", map[string]interface{}{
		"application_id": id,
	})

	err := s.client.ApproveApplication(ctx, id, upstream.ApprovalUpdate{
		ApprovalStatus: models.StatusApproved,
	})
	return workflowResult(err, "Application approved")
}

func (s *applicationService) Reject(ctx context.Context, id string, current models.ApprovalStatus, reason string) (*WorkflowResult, error) {
	if current != models.StatusPending {
		s.log.Warn("Refusing rejection of a decided application", map[string]interface{}{
			"application_id": id,
			"status":         current.Label(),
		})
		return nil, ErrNotPending
	}
	if len(strings.TrimSpace(reason)) < MinRejectionReasonLen {
		return nil, ErrReasonTooShort
	}

	s.log.Info("Rejecting application", map[string]interface{}{
		"application_id": id,
	})

	err := s.client.ApproveApplication(ctx, id, upstream.ApprovalUpdate{
		ApprovalStatus:  models.StatusRejected,
		RejectionReason: reason,
	})
	return workflowResult(err, "Application rejected")
}

func (s *applicationService) EditLand(ctx context.Context, id string, edit models.LandEdit) (*WorkflowResult, error) {
	s.log.Info("Editing application land fields", map[string]interface{}{
		"application_id": id,
	})

	err := s.client.EditApplicationLand(ctx, id, edit)
	return workflowResult(err, "Application updated")
}

func (s *applicationService) Transfer(ctx context.Context, input TransferInput) (*WorkflowResult, error) {
	if input.ServiceID == "" || input.PartnerID == "" {
		return nil, ErrTransferTargetMissing
	}
	if len(input.ApplicationIDs) == 0 {
		return nil, ErrNoApplications
	}

	s.log.Info("Transferring applications", map[string]interface{}{
		"partner_id": input.PartnerID,
		"service_id": input.ServiceID,
		"count":      len(input.ApplicationIDs),
	})

	err := s.client.TransferApplications(ctx, upstream.TransferRequest{
		ServiceID:      input.ServiceID,
		PartnerID:      input.PartnerID,
		Applications:   input.ApplicationIDs,
		TransferReason: input.Reason,
	})
	return workflowResult(err, "Applications transferred")
}

func (s *applicationService) Report(ctx context.Context, filter models.ApplicationFilter) ([]byte, string, error) {
	data, err := s.client.ApplicationReport(ctx, filter)
	if err != nil {
		s.log.Error("Failed to download application report", err, nil)
		return nil, "", fmt.Errorf("failed to download application report: %w", err)
	}
	return data, "reports", nil
}

// fetchPage adapts the backend filter endpoint to the query controller,
// reconstructing the structured filter from the controller's flat filter map.
func (s *applicationService) fetchPage(ctx context.Context, q query.Query) ([]models.Application, int, error) {
	page, err := s.client.FilterApplications(ctx, paramsToFilter(q.Filters), q.Page, q.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return page.Data, page.Meta.Total, nil
}

// filterParams flattens an application filter into the query controller's
// filter map. paramsToFilter is its inverse.
func filterParams(f models.ApplicationFilter) query.Filters {
	params := query.Filters{}
	if f.OrganizationID != "" {
		params["organizationId"] = f.OrganizationID
	}
	if f.ServiceID != "" {
		params["serviceId"] = f.ServiceID
	}
	if f.ApprovalStatus != nil {
		params["approvalStatus"] = strconv.Itoa(int(*f.ApprovalStatus))
	}
	if f.Location != nil {
		if f.Location.ProvinceID != "" {
			params["prov_id"] = f.Location.ProvinceID
		}
		if f.Location.DistrictID != "" {
			params["dist_id"] = f.Location.DistrictID
		}
		if f.Location.SectorID != "" {
			params["sect_id"] = f.Location.SectorID
		}
	}
	if f.From != "" {
		params["from"] = f.From
	}
	if f.To != "" {
		params["to"] = f.To
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

func paramsToFilter(p query.Filters) models.ApplicationFilter {
	f := models.ApplicationFilter{
		OrganizationID: p["organizationId"],
		ServiceID:      p["serviceId"],
		From:           p["from"],
		To:             p["to"],
	}
	if raw, ok := p["approvalStatus"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			status := models.ApprovalStatus(n)
			f.ApprovalStatus = &status
		}
	}
	if p["prov_id"] != "" || p["dist_id"] != "" || p["sect_id"] != "" {
		f.Location = &models.LocationFilter{
			ProvinceID: p["prov_id"],
			DistrictID: p["dist_id"],
			SectorID:   p["sect_id"],
		}
	}
	return f
}
