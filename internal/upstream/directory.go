package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mbonimpa/agrigate/internal/models"
)

// ListOrganizations fetches all partner organizations.
func (c *Client) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	if err := c.do(ctx, http.MethodGet, "/api/v1/organization", nil, nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// GetOrganization fetches one organization, including its ServicesProvided
// set. Callers repopulating a service selector must use this response rather
// than any previously fetched service list.
func (c *Client) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	path := fmt.Sprintf("/api/v1/organization/id/%s", url.PathEscape(id))

	var org models.Organization
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// ListServices fetches all services across organizations.
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := c.do(ctx, http.MethodGet, "/api/v1/service", nil, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetService fetches one service by id.
func (c *Client) GetService(ctx context.Context, id string) (*models.Service, error) {
	path := fmt.Sprintf("/api/v1/service/%s", url.PathEscape(id))

	var svc models.Service
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}

// LocationTree fetches the full three-level province/district/sector
// hierarchy. The tree is fixed; the gateway re-derives child option sets from
// it instead of fetching lower levels separately.
func (c *Client) LocationTree(ctx context.Context) ([]models.Province, error) {
	var provinces []models.Province
	if err := c.do(ctx, http.MethodGet, "/api/v1/geomap/upper", nil, nil, &provinces); err != nil {
		return nil, err
	}
	return provinces, nil
}
