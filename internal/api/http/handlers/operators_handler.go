package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-distribution/internal/api/dto"
	"github.com/spec-kit/lead-distribution/internal/service"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

// OperatorsHandler exposes operator management.
type OperatorsHandler struct {
	service *service.OperatorService
}

// NewOperatorsHandler constructs handler.
func NewOperatorsHandler(operatorService *service.OperatorService) *OperatorsHandler {
	return &OperatorsHandler{service: operatorService}
}

// Create POST /operators.
func (h *OperatorsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	op, err := h.service.Create(c.UserContext(), service.OperatorCreateInput{
		Name:     req.Name,
		Active:   req.IsActive,
		Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": operatorResponse(op)})
}

// List GET /operators.
func (h *OperatorsHandler) List(c *fiber.Ctx) error {
	ops, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.OperatorResponse, 0, len(ops))
	for i := range ops {
		items = append(items, operatorWithLoadResponse(&ops[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /operators/:id.
func (h *OperatorsHandler) Get(c *fiber.Ctx) error {
	detail, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": operatorDetailResponse(detail)})
}

// Load GET /operators/:id/load.
func (h *OperatorsHandler) Load(c *fiber.Ctx) error {
	id := c.Params("id")
	load, err := h.service.GetOperatorLoad(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OperatorLoadResponse{OperatorID: id, CurrentLoad: load}})
}

// Update PATCH /operators/:id.
func (h *OperatorsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateOperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	op, err := h.service.Update(c.UserContext(), c.Params("id"), service.OperatorUpdateInput{
		Name:     req.Name,
		Active:   req.IsActive,
		Capacity: req.Capacity,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": operatorResponse(op)})
}

// Delete DELETE /operators/:id.
func (h *OperatorsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
