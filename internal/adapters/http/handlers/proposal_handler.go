package handlers

import (
	"errors"
	"strconv"
	"time"

	"clinicsales/internal/adapters/http/middleware"
	"clinicsales/internal/adapters/persistence/models"
	"clinicsales/internal/core/domain"
	"clinicsales/internal/core/services"
	"clinicsales/internal/pkg/pagination"
	"clinicsales/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProposalHandler handles proposal lifecycle endpoints
type ProposalHandler struct {
	proposalService *services.ProposalService
	expiryService   *services.ExpiryService
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(proposalService *services.ProposalService, expiryService *services.ExpiryService) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
		expiryService:   expiryService,
	}
}

// proposalError maps lifecycle errors to HTTP responses. Every proposal
// endpoint funnels through here so the status codes stay consistent.
func proposalError(c *fiber.Ctx, err error) error {
	if ve, ok := domain.AsValidation(err); ok {
		return response.ValidationFailed(c, ve.Fields)
	}

	switch {
	case errors.Is(err, domain.ErrProposalNotFound):
		return response.NotFound(c, "Proposal not found")
	case errors.Is(err, domain.ErrClinicNotFound):
		return response.NotFound(c, "Clinic not found")
	case errors.Is(err, domain.ErrClinicInactive):
		return response.BadRequest(c, "Clinic is inactive")
	case errors.Is(err, domain.ErrInvalidTransition):
		return response.UnprocessableEntity(c, "Invalid status transition")
	case errors.Is(err, domain.ErrProposalLocked):
		return response.Locked(c, "Proposal is no longer editable")
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, "Proposal was modified, please retry")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	default:
		return response.InternalServerError(c, "Failed to process proposal")
	}
}

// parseDateQuery parses an optional YYYY-MM-DD query param
func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateProposalRequest represents create proposal request
type CreateProposalRequest struct {
	ClinicID        uint    `json:"clinic_id"`
	TotalAmount     float64 `json:"total_amount"`
	Currency        string  `json:"currency"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// Create creates a new proposal
// @Summary Create proposal
// @Description Create a new sales proposal in pending status
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateProposalRequest true "Proposal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /proposals [post]
func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	var req CreateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.ActingUser(c)

	input := &services.CreateProposalInput{
		ClinicID:        req.ClinicID,
		TotalAmount:     req.TotalAmount,
		Currency:        req.Currency,
		DiscountPercent: req.DiscountPercent,
		Notes:           req.Notes,
	}

	proposal, err := h.proposalService.Create(c.Context(), input, actor)
	if err != nil {
		return proposalError(c, err)
	}

	return response.Created(c, "Proposal created successfully", fiber.Map{
		"proposal": proposal.ToResponse(),
	})
}

// List lists proposals visible to the caller
// @Summary List proposals
// @Description List proposals within the caller's visibility scope
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Filter by status"
// @Param clinic_id query int false "Filter by clinic ID"
// @Param from query string false "Created from (YYYY-MM-DD)"
// @Param to query string false "Created to (YYYY-MM-DD)"
// @Param search query string false "Search in notes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /proposals [get]
func (h *ProposalHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListProposalsInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	if raw := c.Query("clinic_id"); raw != "" {
		clinicID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid clinic_id")
		}
		id := uint(clinicID)
		input.ClinicID = &id
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		return response.BadRequest(c, "Invalid from date, use YYYY-MM-DD")
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return response.BadRequest(c, "Invalid to date, use YYYY-MM-DD")
	}
	input.From = from
	input.To = to

	actor := middleware.ActingUser(c)

	result, err := h.proposalService.List(c.Context(), input, actor)
	if err != nil {
		return proposalError(c, err)
	}

	proposals := make([]*models.ProposalResponse, len(result.Proposals))
	for i, p := range result.Proposals {
		proposals[i] = p.ToResponse()
	}

	return response.Success(c, "Proposals retrieved successfully", fiber.Map{
		"proposals":   proposals,
		"total":       result.Total,
		"page":        result.Page,
		"limit":       result.Limit,
		"total_pages": result.TotalPages,
	})
}

// Get gets a proposal by ID
// @Summary Get proposal
// @Description Get a proposal by ID within the caller's visibility scope
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /proposals/{id} [get]
func (h *ProposalHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	actor := middleware.ActingUser(c)

	proposal, err := h.proposalService.GetByID(c.Context(), uint(id), actor)
	if err != nil {
		return proposalError(c, err)
	}

	return response.Success(c, "Proposal retrieved successfully", fiber.Map{
		"proposal": proposal.ToResponse(),
	})
}

// UpdateProposalRequest represents edit proposal request. The clinic cannot
// be changed after creation.
type UpdateProposalRequest struct {
	TotalAmount     *float64 `json:"total_amount"`
	Currency        *string  `json:"currency"`
	DiscountPercent *float64 `json:"discount_percent"`
	Notes           *string  `json:"notes"`
}

// Update edits a pending proposal
// @Summary Update proposal
// @Description Edit a pending proposal's fields
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Param body body UpdateProposalRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 423 {object} response.Response
// @Router /proposals/{id} [put]
func (h *ProposalHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req UpdateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.ActingUser(c)

	input := &services.UpdateProposalInput{
		TotalAmount:     req.TotalAmount,
		Currency:        req.Currency,
		DiscountPercent: req.DiscountPercent,
		Notes:           req.Notes,
	}

	proposal, err := h.proposalService.Update(c.Context(), uint(id), input, actor)
	if err != nil {
		return proposalError(c, err)
	}

	return response.Success(c, "Proposal updated successfully", fiber.Map{
		"proposal": proposal.ToResponse(),
	})
}

// TransitionRequest represents transition request
type TransitionRequest struct {
	Status string `json:"status"`
}

// Transition moves a proposal to a new status
// @Summary Transition proposal
// @Description Move a proposal to a new lifecycle status
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Param body body TransitionRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /proposals/{id}/transition [post]
func (h *ProposalHandler) Transition(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	var req TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	actor := middleware.ActingUser(c)

	proposal, err := h.proposalService.Transition(c.Context(), uint(id), &services.TransitionInput{Status: req.Status}, actor)
	if err != nil {
		return proposalError(c, err)
	}

	return response.Success(c, "Proposal transitioned successfully", fiber.Map{
		"proposal": proposal.ToResponse(),
	})
}

// Approve approves a pending proposal
// @Summary Approve proposal
// @Description Approve a pending proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /proposals/{id}/approve [post]
func (h *ProposalHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	actor := middleware.ActingUser(c)

	proposal, err := h.proposalService.Approve(c.Context(), uint(id), actor)
	if err != nil {
		return proposalError(c, err)
	}

	return response.Success(c, "Proposal approved successfully", fiber.Map{
		"proposal": proposal.ToResponse(),
	})
}

// Reject rejects a pending proposal
// @Summary Reject proposal
// @Description Reject a pending proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /proposals/{id}/reject [post]
func (h *ProposalHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	actor := middleware.ActingUser(c)

	proposal, err := h.proposalService.Reject(c.Context(), uint(id), actor)
	if err != nil {
		return proposalError(c, err)
	}

	return response.Success(c, "Proposal rejected successfully", fiber.Map{
		"proposal": proposal.ToResponse(),
	})
}

// Delete soft-deletes a proposal
// @Summary Delete proposal
// @Description Delete a proposal (Admin only)
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proposal ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /proposals/{id} [delete]
func (h *ProposalHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid ID")
	}

	actor := middleware.ActingUser(c)

	if err := h.proposalService.Delete(c.Context(), uint(id), actor); err != nil {
		return proposalError(c, err)
	}

	return response.Success(c, "Proposal deleted successfully", nil)
}

// RunExpirySweep triggers the expiry sweep outside its schedule
// @Summary Run expiry sweep
// @Description Expire stale pending proposals immediately (Admin only)
// @Tags Proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /proposals/expiry-sweep [post]
func (h *ProposalHandler) RunExpirySweep(c *fiber.Ctx) error {
	expired, err := h.expiryService.RunNow(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to run expiry sweep")
	}

	return response.Success(c, "Expiry sweep completed", fiber.Map{
		"expired": expired,
	})
}
