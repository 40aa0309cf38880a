package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-distribution/internal/api/dto"
	"github.com/spec-kit/lead-distribution/internal/service"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

// SourcesHandler exposes source management.
type SourcesHandler struct {
	service *service.SourceService
}

// NewSourcesHandler constructs handler.
func NewSourcesHandler(sourceService *service.SourceService) *SourcesHandler {
	return &SourcesHandler{service: sourceService}
}

// Create POST /sources.
func (h *SourcesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	src, err := h.service.Create(c.UserContext(), service.SourceCreateInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Active:      req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sourceResponse(src)})
}

// List GET /sources.
func (h *SourcesHandler) List(c *fiber.Ctx) error {
	sources, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.SourceResponse, 0, len(sources))
	for i := range sources {
		items = append(items, sourceResponse(&sources[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /sources/:id.
func (h *SourcesHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sourceDetailResponse(detail)})
}

// Update PATCH /sources/:id.
func (h *SourcesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSourceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	src, err := h.service.Update(c.UserContext(), c.Params("id"), service.SourceUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sourceResponse(src)})
}

// Delete DELETE /sources/:id.
func (h *SourcesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
