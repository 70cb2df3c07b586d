package handlers

import (
	"strconv"

	"clinicsales/internal/adapters/persistence/models"
	"clinicsales/internal/adapters/persistence/repositories"
	"clinicsales/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles directory master data endpoints
type MasterHandler struct {
	regionRepo repositories.RegionRepository
	clinicRepo repositories.ClinicRepository
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(
	regionRepo repositories.RegionRepository,
	clinicRepo repositories.ClinicRepository,
) *MasterHandler {
	return &MasterHandler{
		regionRepo: regionRepo,
		clinicRepo: clinicRepo,
	}
}

// ============================================================
// Regions
// ============================================================

// ListRegions lists all regions
// @Summary List regions
// @Description Get all regions
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /master/regions [get]
func (h *MasterHandler) ListRegions(c *fiber.Ctx) error {
	regions, err := h.regionRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list regions")
	}

	return response.Success(c, "Regions retrieved successfully", fiber.Map{
		"regions": regions,
	})
}

// CreateRegionRequest represents create region request
type CreateRegionRequest struct {
	Name string `json:"name"`
}

// CreateRegion creates a new region
// @Summary Create region
// @Description Create a new region (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRegionRequest true "Region data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /master/regions [post]
func (h *MasterHandler) CreateRegion(c *fiber.Ctx) error {
	var req CreateRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	region := &models.Region{Name: req.Name}
	if err := h.regionRepo.Create(c.Context(), region); err != nil {
		return response.InternalServerError(c, "Failed to create region")
	}

	return response.Created(c, "Region created successfully", fiber.Map{
		"region": region,
	})
}

// UpdateRegion updates a region
// @Summary Update region
// @Description Update a region (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Region ID"
// @Param body body CreateRegionRequest true "Region data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/regions/{id} [put]
func (h *MasterHandler) UpdateRegion(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req CreateRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	region, err := h.regionRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Region not found")
	}

	region.Name = req.Name
	if err := h.regionRepo.Update(c.Context(), region); err != nil {
		return response.InternalServerError(c, "Failed to update region")
	}

	return response.Success(c, "Region updated successfully", fiber.Map{
		"region": region,
	})
}

// DeleteRegion deletes a region
// @Summary Delete region
// @Description Soft delete a region (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Region ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/regions/{id} [delete]
func (h *MasterHandler) DeleteRegion(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.regionRepo.GetByID(c.Context(), uint(id)); err != nil {
		return response.NotFound(c, "Region not found")
	}

	if err := h.regionRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete region")
	}

	return response.Success(c, "Region deleted successfully", nil)
}

// ============================================================
// Clinics
// ============================================================

// ListClinics lists clinics, optionally by region
// @Summary List clinics
// @Description Get all active clinics, optionally filtered by region
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param region_id query int false "Filter by region ID"
// @Param all query bool false "Include inactive"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /master/clinics [get]
func (h *MasterHandler) ListClinics(c *fiber.Ctx) error {
	includeInactive := c.Query("all") == "true"

	var regionID *uint
	if raw := c.Query("region_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid region_id")
		}
		parsed := uint(id)
		regionID = &parsed
	}

	var clinics []*models.Clinic
	var err error

	if includeInactive {
		clinics, err = h.clinicRepo.ListAll(c.Context())
	} else {
		clinics, err = h.clinicRepo.List(c.Context(), regionID)
	}

	if err != nil {
		return response.InternalServerError(c, "Failed to list clinics")
	}

	return response.Success(c, "Clinics retrieved successfully", fiber.Map{
		"clinics": clinics,
	})
}

// GetClinic gets a clinic by ID
// @Summary Get clinic
// @Description Get a clinic by ID
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Clinic ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/clinics/{id} [get]
func (h *MasterHandler) GetClinic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	clinic, err := h.clinicRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Clinic not found")
	}

	return response.Success(c, "Clinic retrieved successfully", fiber.Map{
		"clinic": clinic,
	})
}

// CreateClinicRequest represents create clinic request
type CreateClinicRequest struct {
	Name        string `json:"name"`
	RegionID    uint   `json:"region_id"`
	ContactName string `json:"contact_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// CreateClinic creates a new clinic
// @Summary Create clinic
// @Description Create a new clinic (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateClinicRequest true "Clinic data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/clinics [post]
func (h *MasterHandler) CreateClinic(c *fiber.Ctx) error {
	var req CreateClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" || req.RegionID == 0 {
		return response.BadRequest(c, "Name and region are required")
	}

	if _, err := h.regionRepo.GetByID(c.Context(), req.RegionID); err != nil {
		return response.NotFound(c, "Region not found")
	}

	clinic := &models.Clinic{
		Name:        req.Name,
		RegionID:    req.RegionID,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		IsActive:    true,
	}

	if err := h.clinicRepo.Create(c.Context(), clinic); err != nil {
		return response.InternalServerError(c, "Failed to create clinic")
	}

	return response.Created(c, "Clinic created successfully", fiber.Map{
		"clinic": clinic,
	})
}

// UpdateClinicRequest represents update clinic request
type UpdateClinicRequest struct {
	Name        *string `json:"name"`
	RegionID    *uint   `json:"region_id"`
	ContactName *string `json:"contact_name"`
	Phone       *string `json:"phone"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateClinic updates a clinic
// @Summary Update clinic
// @Description Update a clinic (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Clinic ID"
// @Param body body UpdateClinicRequest true "Clinic data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/clinics/{id} [put]
func (h *MasterHandler) UpdateClinic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req UpdateClinicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	clinic, err := h.clinicRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return response.NotFound(c, "Clinic not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return response.BadRequest(c, "Name cannot be empty")
		}
		clinic.Name = *req.Name
	}
	if req.RegionID != nil {
		if _, err := h.regionRepo.GetByID(c.Context(), *req.RegionID); err != nil {
			return response.NotFound(c, "Region not found")
		}
		clinic.RegionID = *req.RegionID
	}
	if req.ContactName != nil {
		clinic.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		clinic.Phone = *req.Phone
	}
	if req.IsActive != nil {
		clinic.IsActive = *req.IsActive
	}

	if err := h.clinicRepo.Update(c.Context(), clinic); err != nil {
		return response.InternalServerError(c, "Failed to update clinic")
	}

	return response.Success(c, "Clinic updated successfully", fiber.Map{
		"clinic": clinic,
	})
}

// DeleteClinic deletes a clinic
// @Summary Delete clinic
// @Description Soft delete a clinic (Admin only)
// @Tags Master
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Clinic ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /master/clinics/{id} [delete]
func (h *MasterHandler) DeleteClinic(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	if _, err := h.clinicRepo.GetByID(c.Context(), uint(id)); err != nil {
		return response.NotFound(c, "Clinic not found")
	}

	if err := h.clinicRepo.Delete(c.Context(), uint(id)); err != nil {
		return response.InternalServerError(c, "Failed to delete clinic")
	}

	return response.Success(c, "Clinic deleted successfully", nil)
}
