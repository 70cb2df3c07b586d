package handlers

import (
	"clinicsales/internal/adapters/http/middleware"
	"clinicsales/internal/core/services"
	"clinicsales/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	reportService *services.ReportService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(reportService *services.ReportService) *DashboardHandler {
	return &DashboardHandler{
		reportService: reportService,
	}
}

// GetSummary returns the proposal summary for the caller's scope
// @Summary Dashboard summary
// @Description Get per-status proposal counts and amounts within the caller's visibility scope
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "Created from (YYYY-MM-DD)"
// @Param to query string false "Created to (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return response.BadRequest(c, "Invalid from date, use YYYY-MM-DD")
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return response.BadRequest(c, "Invalid to date, use YYYY-MM-DD")
	}

	actor := middleware.ActingUser(c)

	data, err := h.reportService.GetSummary(c.Context(), actor, from, to)
	if err != nil {
		return response.InternalServerError(c, "Failed to get summary")
	}

	return response.Success(c, "Summary retrieved successfully", data)
}
