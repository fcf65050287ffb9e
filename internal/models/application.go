package models

import (
	"time"
)

// Application joins an Applicant, a Service, and an Organization, carrying the
// approval lifecycle. Status transitions are PENDING -> {APPROVED, REJECTED};
// a transfer changes the owning organization/service without changing status.
// The backend is the authority for all transitions; this layer only refuses
// requests it can already tell are invalid.
type Application struct {
	CreatedAt       time.Time      `json:"createdAt"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	ApprovedBy      *string        `json:"approvedBy,omitempty"`
	RejectionReason *string        `json:"rejectionReason,omitempty"`
	TransferredBy   *string        `json:"transferredBy,omitempty"`
	TransferredFrom *string        `json:"transferredFrom,omitempty"`
	TransferReason  *string        `json:"transferReason,omitempty"`
	Applicant       Applicant      `json:"applicant"`
	OrganizationID  string         `json:"organizationId"`
	ServiceID       string         `json:"serviceId"`
	ApprovalStatus  ApprovalStatus `json:"approvalStatus"`
	ID              string         `json:"id"`
}

// ApplicationFilter is the optional-field query for application listings.
// A nil/empty field means "no constraint". The zero value is the
// "no filter" state, distinct from a filter that matched zero records.
type ApplicationFilter struct {
	OrganizationID string          `json:"organizationId,omitempty"`
	ServiceID      string          `json:"serviceId,omitempty"`
	ApprovalStatus *ApprovalStatus `json:"approvalStatus,omitempty"`
	Location       *LocationFilter `json:"location,omitempty"`
	From           string          `json:"from,omitempty"`
	To             string          `json:"to,omitempty"`
}

// LocationFilter narrows a query to a point in the location hierarchy.
// Lower levels have no meaning without their parent set.
type LocationFilter struct {
	ProvinceID string `json:"prov_id,omitempty"`
	DistrictID string `json:"dist_id,omitempty"`
	SectorID   string `json:"sect_id,omitempty"`
}

// IsZero reports whether the filter carries no constraints at all.
func (f ApplicationFilter) IsZero() bool {
	return f.OrganizationID == "" &&
		f.ServiceID == "" &&
		f.ApprovalStatus == nil &&
		f.Location == nil &&
		f.From == "" &&
		f.To == ""
}
