package models

import (
	"time"
)

// Applicant represents a farmer/business profile registered for program services.
// The record is owned by the program backend; this layer only reads it and
// edits the narrow land-size field subset. All nullable fields use pointers to
// distinguish between zero values and fields the backend did not send.
type Applicant struct {
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
	FirstName             string         `json:"firstName"`
	LastName              string         `json:"lastName"`
	NationalID            string         `json:"nationalId"`
	Phone                 string         `json:"phone"`
	EnterpriseID          *string        `json:"enterpriseId,omitempty"`
	ProvinceID            *string        `json:"provinceId,omitempty"`
	DistrictID            *string        `json:"districtId,omitempty"`
	SectorID              *string        `json:"sectorId,omitempty"`
	TotalLandSizeOwned    *float64       `json:"totalLandSizeOwned,omitempty"`
	TotalLandSizeAccessed *float64       `json:"totalLandSizeAccessed,omitempty"`
	LandOwnership         *LandOwnership `json:"landOwnership,omitempty"`
	Gender                Gender         `json:"gender"`
	MaritalStatus         MaritalStatus  `json:"maritalStatus"`
	EducationLevel        EducationLevel `json:"educationLevel"`
	EmploymentStatus      EmployStatus   `json:"employmentStatus"`
	EmploymentType        EmployType     `json:"employmentType"`
	BusinessType          BusinessType   `json:"businessType"`
	SMECategory           SMECategory    `json:"smeCategory"`
	HasDisability         bool           `json:"hasDisability"`
	IsRefugee             bool           `json:"isRefugee"`
	IsStudent             bool           `json:"isStudent"`
	ID                    string         `json:"id"`
}

// FullName joins the applicant's name parts for display.
func (a *Applicant) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// LandEdit carries the narrow field subset this layer may change on an
// applicant's application record. Nil fields are left untouched by the backend.
type LandEdit struct {
	TotalLandSizeOwned    *float64       `json:"totalLandSizeOwned,omitempty"`
	TotalLandSizeAccessed *float64       `json:"totalLandSizeAccessed,omitempty"`
	LandOwnership         *LandOwnership `json:"landOwnership,omitempty"`
}

// PageMeta is the pagination metadata the backend returns alongside list data.
type PageMeta struct {
	Total int `json:"total"`
}
