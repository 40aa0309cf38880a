package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-distribution/internal/api/dto"
	"github.com/spec-kit/lead-distribution/internal/service"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

// AssignmentsHandler configures operator/source weights.
type AssignmentsHandler struct {
	service *service.AssignmentService
}

// NewAssignmentsHandler constructs handler.
func NewAssignmentsHandler(assignmentService *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{service: assignmentService}
}

// Upsert POST /assignments.
func (h *AssignmentsHandler) Upsert(c *fiber.Ctx) error {
	var req dto.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.OperatorID == "" || req.SourceID == "" {
		return apperrors.NewValidationError("operator_id and source_id required", nil)
	}
	a, err := h.service.Assign(c.UserContext(), service.AssignmentInput{
		OperatorID: req.OperatorID,
		SourceID:   req.SourceID,
		Weight:     req.Weight,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AssignmentResponse{
		OperatorID: a.OperatorID,
		SourceID:   a.SourceID,
		Weight:     a.Weight,
	}})
}

// List GET /assignments?source_id=... or ?operator_id=...
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	switch {
	case c.Query("source_id") != "":
		sourceID := c.Query("source_id")
		items, err := h.service.ListBySource(ctx, sourceID)
		if err != nil {
			return err
		}
		out := make([]dto.AssignmentResponse, 0, len(items))
		for _, item := range items {
			out = append(out, dto.AssignmentResponse{OperatorID: item.Operator.ID, SourceID: sourceID, Weight: item.Weight})
		}
		return c.JSON(fiber.Map{"data": out})
	case c.Query("operator_id") != "":
		operatorID := c.Query("operator_id")
		items, err := h.service.ListByOperator(ctx, operatorID)
		if err != nil {
			return err
		}
		out := make([]dto.AssignmentResponse, 0, len(items))
		for _, item := range items {
			out = append(out, dto.AssignmentResponse{OperatorID: operatorID, SourceID: item.SourceID, Weight: item.Weight})
		}
		return c.JSON(fiber.Map{"data": out})
	}
	return apperrors.NewValidationError("source_id or operator_id query parameter required", nil)
}

// Delete DELETE /assignments/:operator_id/:source_id.
func (h *AssignmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Unassign(c.UserContext(), c.Params("operator_id"), c.Params("source_id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
