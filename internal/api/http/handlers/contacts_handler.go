package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pizza-service/internal/api/dto"
	"github.com/spec-kit/pizza-service/internal/service"
)

// ContactsHandler accepts contact-form submissions.
type ContactsHandler struct {
	service *service.ContactService
}

func NewContactsHandler(contactService *service.ContactService) *ContactsHandler {
	return &ContactsHandler{service: contactService}
}

// Submit POST /contacts.
func (h *ContactsHandler) Submit(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, err := h.service.Submit(c.UserContext(), caller, service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewContactResponse(msg))
}
