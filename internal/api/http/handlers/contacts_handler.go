package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-distribution/internal/api/dto"
	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/service"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

// ContactsHandler exposes the contact lifecycle.
type ContactsHandler struct {
	service *service.ContactService
}

// NewContactsHandler constructs handler.
func NewContactsHandler(contactService *service.ContactService) *ContactsHandler {
	return &ContactsHandler{service: contactService}
}

// Create POST /contacts.
func (h *ContactsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Create(c.UserContext(), service.ContactCreateInput{
		LeadExternalID: req.LeadExternalID,
		SourceCode:     req.SourceCode,
		Message:        req.Message,
		Lead: service.LeadContactInfo{
			Name:  req.LeadName,
			Phone: req.LeadPhone,
			Email: req.LeadEmail,
		},
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateContactResponse{
		ContactResponse:  contactResponse(&result.Contact),
		Lead:             leadResponse(result.Lead),
		DistributionInfo: result.Rationale,
	}})
}

// List GET /contacts?status=...
func (h *ContactsHandler) List(c *fiber.Ctx) error {
	filter := service.ContactListFilter{
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.ContactStatus(raw)
		filter.Status = &status
	}
	views, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contactList(views)})
}

// Get GET /contacts/:id.
func (h *ContactsHandler) Get(c *fiber.Ctx) error {
	view, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contactResponse(view)})
}

// UpdateStatus PATCH /contacts/:id/status.
func (h *ContactsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateContactStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contactResponse(view)})
}

// Reassign POST /contacts/:id/reassign.
func (h *ContactsHandler) Reassign(c *fiber.Ctx) error {
	result, err := h.service.Reassign(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReassignContactResponse{
		Contact:          contactResponse(&result.Contact),
		NewOperatorID:    result.Contact.OperatorID,
		NewOperatorName:  result.Contact.OperatorName,
		DistributionInfo: result.Rationale,
	}})
}
