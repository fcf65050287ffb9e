package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mbonimpa/agrigate/internal/errors"
	"github.com/mbonimpa/agrigate/internal/services"
)

// DirectoryHandler serves the reference data behind the dashboard's
// selectors: organizations, services, and the location hierarchy.
type DirectoryHandler struct {
	service services.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler instance.
func NewDirectoryHandler(service services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
	}
}

// Organizations handles GET /api/v1/organizations.
func (h *DirectoryHandler) Organizations(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	orgs, err := h.service.Organizations(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to list organizations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// Organization handles GET /api/v1/organizations/:id.
func (h *DirectoryHandler) Organization(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	org, err := h.service.Organization(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		respondServiceError(c, "Failed to fetch organization", err)
		return
	}

	c.JSON(http.StatusOK, org)
}

// OrganizationServices handles GET /api/v1/organizations/:id/services.
// Returns the service set provided by one organization, the only valid source
// for a service selector scoped to that organization.
func (h *DirectoryHandler) OrganizationServices(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	servicesProvided, err := h.service.OrganizationServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrOrganizationNotFound) {
			apierrors.NotFound(c, "Organization not found")
			return
		}
		respondServiceError(c, "Failed to fetch organization services", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": servicesProvided})
}

// Services handles GET /api/v1/services.
func (h *DirectoryHandler) Services(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	all, err := h.service.Services(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to list services", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": all})
}

// Service handles GET /api/v1/services/:id.
func (h *DirectoryHandler) Service(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	svc, err := h.service.Service(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrServiceNotFound) {
			apierrors.NotFound(c, "Service not found")
			return
		}
		respondServiceError(c, "Failed to fetch service", err)
		return
	}

	c.JSON(http.StatusOK, svc)
}

// Locations handles GET /api/v1/locations.
// Returns the full province/district/sector tree.
func (h *DirectoryHandler) Locations(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	provinces, err := h.service.Locations(c.Request.Context())
	if err != nil {
		respondServiceError(c, "Failed to fetch locations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"provinces": provinces})
}

// Districts handles GET /api/v1/locations/:provinceID/districts.
func (h *DirectoryHandler) Districts(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	districts, err := h.service.Districts(c.Request.Context(), c.Param("provinceID"))
	if err != nil {
		if errors.Is(err, services.ErrProvinceNotFound) {
			apierrors.NotFound(c, "Province not found")
			return
		}
		respondServiceError(c, "Failed to fetch districts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"districts": districts})
}

// Sectors handles GET /api/v1/locations/:provinceID/districts/:districtID/sectors.
func (h *DirectoryHandler) Sectors(c *gin.Context) {
	if !requireAccess(c, ruleView) {
		return
	}

	sectors, err := h.service.Sectors(c.Request.Context(), c.Param("provinceID"), c.Param("districtID"))
	if err != nil {
		if errors.Is(err, services.ErrProvinceNotFound) || errors.Is(err, services.ErrDistrictNotFound) {
			apierrors.NotFound(c, "Location not found")
			return
		}
		respondServiceError(c, "Failed to fetch sectors", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}
