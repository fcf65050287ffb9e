package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mbonimpa/agrigate/internal/logger"
	"github.com/mbonimpa/agrigate/internal/models"
	"github.com/mbonimpa/agrigate/internal/upstream"
)

// MockDirectoryClient is a mock implementation of DirectoryClient for testing
type MockDirectoryClient struct {
	mock.Mock
}

func (m *MockDirectoryClient) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Organization), args.Error(1)
}

func (m *MockDirectoryClient) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockDirectoryClient) ListServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockDirectoryClient) GetService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockDirectoryClient) LocationTree(ctx context.Context) ([]models.Province, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Province), args.Error(1)
}

func locationFixture() []models.Province {
	return []models.Province{
		{
			ID:   "p-1",
			Name: "Kigali City",
			Districts: []models.District{
				{
					ID:   "d-1",
					Name: "Gasabo",
					Sectors: []models.Sector{
						{ID: "s-1", Name: "Remera"},
						{ID: "s-2", Name: "Kimironko"},
					},
				},
				{ID: "d-2", Name: "Kicukiro"},
			},
		},
		{ID: "p-2", Name: "Eastern Province"},
	}
}

func TestOrganization_Success(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	org := &models.Organization{ID: "org-1", Name: "Partner One"}
	mockClient.On("GetOrganization", ctx, "org-1").Return(org, nil)

	got, err := service.Organization(ctx, "org-1")

	require.NoError(t, err)
	assert.Equal(t, org, got)
	mockClient.AssertExpectations(t)
}

func TestOrganization_NotFound(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("GetOrganization", ctx, "missing").Return(nil, upstream.ErrNotFound)

	got, err := service.Organization(ctx, "missing")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestOrganizationServices_Success(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	org := &models.Organization{
		ID:   "org-1",
		Name: "Partner One",
		ServicesProvided: []models.Service{
			{ID: "svc-1", Name: "Seeds"},
			{ID: "svc-2", Name: "Fertilizer"},
		},
	}
	mockClient.On("GetOrganization", ctx, "org-1").Return(org, nil)

	services, err := service.OrganizationServices(ctx, "org-1")

	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Seeds", services[0].Name)
	mockClient.AssertExpectations(t)
}

func TestOrganizationServices_NotFound(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("GetOrganization", ctx, "missing").Return(nil, upstream.ErrNotFound)

	services, err := service.OrganizationServices(ctx, "missing")

	assert.Nil(t, services)
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestOrganizationServices_NilServicesBecomesEmptySlice(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("GetOrganization", ctx, "org-1").Return(&models.Organization{ID: "org-1"}, nil)

	services, err := service.OrganizationServices(ctx, "org-1")

	require.NoError(t, err)
	assert.NotNil(t, services)
	assert.Empty(t, services)
}

func TestService_NotFound(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("GetService", ctx, "missing").Return(nil, upstream.ErrNotFound)

	svc, err := service.Service(ctx, "missing")

	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestDistricts_DerivedFromTree(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("LocationTree", ctx).Return(locationFixture(), nil)

	districts, err := service.Districts(ctx, "p-1")

	require.NoError(t, err)
	require.Len(t, districts, 2)
	assert.Equal(t, "Gasabo", districts[0].Name)
}

func TestDistricts_UnknownProvince(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("LocationTree", ctx).Return(locationFixture(), nil)

	_, err := service.Districts(ctx, "p-99")

	assert.ErrorIs(t, err, ErrProvinceNotFound)
}

func TestSectors_DerivedFromTree(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("LocationTree", ctx).Return(locationFixture(), nil)

	sectors, err := service.Sectors(ctx, "p-1", "d-1")

	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, "Remera", sectors[0].Name)
}

func TestSectors_UnknownDistrict(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("LocationTree", ctx).Return(locationFixture(), nil)

	_, err := service.Sectors(ctx, "p-1", "d-99")

	assert.ErrorIs(t, err, ErrDistrictNotFound)
}

func TestSectors_DistrictWithoutSectorsIsEmptySlice(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	mockClient.On("LocationTree", ctx).Return(locationFixture(), nil)

	sectors, err := service.Sectors(ctx, "p-1", "d-2")

	require.NoError(t, err)
	assert.NotNil(t, sectors)
	assert.Empty(t, sectors)
}

func TestOrganizations_UpstreamFailure(t *testing.T) {
	mockClient := new(MockDirectoryClient)
	log := logger.New("test")
	service := NewDirectoryService(mockClient, log)

	ctx := context.Background()
	upstreamErr := errors.New("connection refused")
	mockClient.On("ListOrganizations", ctx).Return(nil, upstreamErr)

	orgs, err := service.Organizations(ctx)

	assert.Nil(t, orgs)
	assert.ErrorIs(t, err, upstreamErr)
}
