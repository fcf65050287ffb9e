package models

// Service is an offering provided by an Organization, selectable per
// Application.
type Service struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Organization is a partner entity providing one or more services. Services
// are scoped to their organization: a service selector must always be
// re-derived from the owning organization's ServicesProvided set.
type Organization struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ServicesProvided []Service `json:"servicesProvided"`
}

// ServiceByID looks up one of the organization's own services.
// Returns nil if the service is not provided by this organization.
func (o *Organization) ServiceByID(id string) *Service {
	for i := range o.ServicesProvided {
		if o.ServicesProvided[i].ID == id {
			return &o.ServicesProvided[i]
		}
	}
	return nil
}
