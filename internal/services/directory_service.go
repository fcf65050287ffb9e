package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mbonimpa/agrigate/internal/logger"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/upstream"
)

// Service-level errors
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrProvinceNotFound     = errors.New("province not found")
	ErrDistrictNotFound     = errors.New("district not found")
)

// DirectoryClient is the slice of the backend API the directory service needs.
type DirectoryClient interface {
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	LocationTree(ctx context.Context) ([]models.Province, error)
}

// DirectoryService exposes the reference data the dashboard's selectors are
// built from: partner organizations, their services, and the location tree.
type DirectoryService interface {
	// Organizations lists all partner organizations.
	Organizations(ctx context.Context) ([]models.Organization, error)

	// Organization fetches one organization by id.
	// Returns ErrOrganizationNotFound if it does not exist.
	Organization(ctx context.Context, id string) (*models.Organization, error)

	// OrganizationServices returns the service set provided by one
	// organization. Service selectors must be fed from this, never from the
	// global service list, so a service can't be paired with an organization
	// that doesn't provide it.
	// Returns ErrOrganizationNotFound if the organization does not exist.
	OrganizationServices(ctx context.Context, orgID string) ([]models.Service, error)

	// Services lists all services across organizations.
	Services(ctx context.Context) ([]models.Service, error)

	// Service fetches one service by id.
	// Returns ErrServiceNotFound if it does not exist.
	Service(ctx context.Context, id string) (*models.Service, error)

	// Locations returns the full province/district/sector tree.
	Locations(ctx context.Context) ([]models.Province, error)

	// Districts returns the districts of one province.
	// Returns ErrProvinceNotFound if the province is not in the tree.
	Districts(ctx context.Context, provinceID string) ([]models.District, error)

	// Sectors returns the sectors of one district within a province.
	// Returns ErrProvinceNotFound or ErrDistrictNotFound when the path
	// does not exist.
	Sectors(ctx context.Context, provinceID, districtID string) ([]models.Sector, error)
}

type directoryService struct {
	client DirectoryClient
	log    *logger.Logger
}

// NewDirectoryService creates a new instance of DirectoryService.
func NewDirectoryService(client DirectoryClient, log *logger.Logger) DirectoryService {
	return &directoryService{
		client: client,
		log:    log,
	}
}

func (s *directoryService) Organizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := s.client.ListOrganizations(ctx)
	if err != nil {
		s.log.Error("Failed to list organizations", err, nil)
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

func (s *directoryService) Organization(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.client.GetOrganization(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.log.Error("Failed to fetch organization", err, map[string]interface{}{
			"organization_id": id,
		})
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	return org, nil
}

func (s *directoryService) OrganizationServices(ctx context.Context, orgID string) ([]models.Service, error) {
	org, err := s.client.GetOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		s.log.Error("Failed to fetch organization", err, map[string]interface{}{
			"organization_id": orgID,
		})
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}

	services := org.ServicesProvided
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}

func (s *directoryService) Services(ctx context.Context) ([]models.Service, error) {
	services, err := s.client.ListServices(ctx)
	if err != nil {
		s.log.Error("Failed to list services", err, nil)
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *directoryService) Service(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.client.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		s.log.Error("Failed to fetch service", err, map[string]interface{}{
			"service_id": id,
		})
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	return svc, nil
}

func (s *directoryService) Locations(ctx context.Context) ([]models.Province, error) {
	provinces, err := s.client.LocationTree(ctx)
	if err != nil {
		s.log.Error("Failed to fetch location tree", err, nil)
		return nil, fmt.Errorf("failed to fetch location tree: %w", err)
	}
	return provinces, nil
}

func (s *directoryService) Districts(ctx context.Context, provinceID string) ([]models.District, error) {
	province, err := s.findProvince(ctx, provinceID)
	if err != nil {
		return nil, err
	}

	districts := province.Districts
	if districts == nil {
		districts = []models.District{}
	}
	return districts, nil
}

func (s *directoryService) Sectors(ctx context.Context, provinceID, districtID string) ([]models.Sector, error) {
	province, err := s.findProvince(ctx, provinceID)
	if err != nil {
		return nil, err
	}

	district := province.DistrictByID(districtID)
	if district == nil {
		return nil, ErrDistrictNotFound
	}

	sectors := district.Sectors
	if sectors == nil {
		sectors = []models.Sector{}
	}
	return sectors, nil
}

func (s *directoryService) findProvince(ctx context.Context, provinceID string) (*models.Province, error) {
	provinces, err := s.client.LocationTree(ctx)
	if err != nil {
		s.log.Error("Failed to fetch location tree", err, map[string]interface{}{
			"province_id": provinceID,
		})
		return nil, fmt.Errorf("failed to fetch location tree: %w", err)
	}

	for i := range provinces {
		if provinces[i].ID == provinceID {
			return &provinces[i], nil
		}
	}
	return nil, ErrProvinceNotFound
}
