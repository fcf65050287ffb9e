package models

// The program backend encodes demographic and lifecycle attributes as small
// integer codes. Each enumeration here is total and closed: every code the
// backend emits has a label, and anything else renders as "Unknown".

const labelUnknown = "Unknown"

// ApprovalStatus is an application's position in the approval lifecycle.
type ApprovalStatus int

const (
	StatusRejected ApprovalStatus = 1
	StatusPending  ApprovalStatus = 2
	StatusApproved ApprovalStatus = 3
)

// Label returns the human-readable approval status.
func (s ApprovalStatus) Label() string {
	switch s {
	case StatusRejected:
		return "Rejected"
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	default:
		return labelUnknown
	}
}

// BusinessType gates which upload schema and which extra fields apply.
type BusinessType int

const (
	BusinessIndividual BusinessType = 1
	BusinessSME        BusinessType = 2
)

// Label returns the human-readable business type.
func (t BusinessType) Label() string {
	switch t {
	case BusinessIndividual:
		return "Individual"
	case BusinessSME:
		return "SME"
	default:
		return labelUnknown
	}
}

// Gender code.
type Gender int

const (
	GenderMale   Gender = 1
	GenderFemale Gender = 2
)

// Label returns the human-readable gender.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return labelUnknown
	}
}

// MaritalStatus code.
type MaritalStatus int

const (
	MaritalSingle   MaritalStatus = 1
	MaritalMarried  MaritalStatus = 2
	MaritalDivorced MaritalStatus = 3
	MaritalWidowed  MaritalStatus = 4
)

// Label returns the human-readable marital status.
func (m MaritalStatus) Label() string {
	switch m {
	case MaritalSingle:
		return "Single"
	case MaritalMarried:
		return "Married"
	case MaritalDivorced:
		return "Divorced"
	case MaritalWidowed:
		return "Widowed"
	default:
		return labelUnknown
	}
}

// EducationLevel code.
type EducationLevel int

const (
	EducationNone       EducationLevel = 1
	EducationPrimary    EducationLevel = 2
	EducationSecondary  EducationLevel = 3
	EducationVocational EducationLevel = 4
	EducationUniversity EducationLevel = 5
)

// Label returns the human-readable education level.
func (e EducationLevel) Label() string {
	switch e {
	case EducationNone:
		return "No formal education"
	case EducationPrimary:
		return "Primary"
	case EducationSecondary:
		return "Secondary"
	case EducationVocational:
		return "Technical and vocational"
	case EducationUniversity:
		return "University"
	default:
		return labelUnknown
	}
}

// EmployStatus is an applicant's employment status code.
type EmployStatus int

const (
	EmployStatusEmployed     EmployStatus = 1
	EmployStatusSelfEmployed EmployStatus = 2
	EmployStatusUnemployed   EmployStatus = 3
)

// Label returns the human-readable employment status.
func (e EmployStatus) Label() string {
	switch e {
	case EmployStatusEmployed:
		return "Employed"
	case EmployStatusSelfEmployed:
		return "Self-employed"
	case EmployStatusUnemployed:
		return "Unemployed"
	default:
		return labelUnknown
	}
}

// EmployType is an applicant's employment type code.
type EmployType int

const (
	EmployTypeFullTime EmployType = 1
	EmployTypePartTime EmployType = 2
	EmployTypeSeasonal EmployType = 3
)

// Label returns the human-readable employment type.
func (e EmployType) Label() string {
	switch e {
	case EmployTypeFullTime:
		return "Full-time"
	case EmployTypePartTime:
		return "Part-time"
	case EmployTypeSeasonal:
		return "Seasonal"
	default:
		return labelUnknown
	}
}

// SMECategory classifies SME-type applicants by size.
type SMECategory int

const (
	SMECategoryMicro  SMECategory = 1
	SMECategorySmall  SMECategory = 2
	SMECategoryMedium SMECategory = 3
)

// Label returns the human-readable SME category.
func (s SMECategory) Label() string {
	switch s {
	case SMECategoryMicro:
		return "Micro"
	case SMECategorySmall:
		return "Small"
	case SMECategoryMedium:
		return "Medium"
	default:
		return labelUnknown
	}
}

// LandOwnership describes how an applicant holds their land.
type LandOwnership int

const (
	LandOwned    LandOwnership = 1
	LandRented   LandOwnership = 2
	LandCommunal LandOwnership = 3
)

// Label returns the human-readable land ownership.
func (l LandOwnership) Label() string {
	switch l {
	case LandOwned:
		return "Owned"
	case LandRented:
		return "Rented"
	case LandCommunal:
		return "Communal"
	default:
		return labelUnknown
	}
}
