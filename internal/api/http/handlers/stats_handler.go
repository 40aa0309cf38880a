package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-distribution/internal/api/dto"
	"github.com/spec-kit/lead-distribution/internal/service"
)

// StatsHandler exposes aggregate counters.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// System GET /stats.
func (h *StatsHandler) System(c *fiber.Ctx) error {
	stats, err := h.service.System(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SystemStatsResponse{
		TotalOperators:  stats.TotalOperators,
		ActiveOperators: stats.ActiveOperators,
		TotalSources:    stats.TotalSources,
		TotalLeads:      stats.TotalLeads,
		TotalContacts:   stats.TotalContacts,
		ActiveContacts:  stats.ActiveContacts,
	}})
}

// SourceDistribution GET /stats/sources/:id.
func (h *StatsHandler) SourceDistribution(c *fiber.Ctx) error {
	stats, err := h.service.SourceDistribution(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sourceDistributionResponse(stats)})
}
