package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rahulg963/udhaarbook/middleware"
	"github.com/rahulg963/udhaarbook/services"
)

type ProfileHandler struct {
	identity *services.IdentityService
}

func NewProfileHandler(identity *services.IdentityService) *ProfileHandler {
	return &ProfileHandler{identity: identity}
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	user, err := h.identity.GetByPhone(phone)
	if err != nil {
		return serviceError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	phone := middleware.PhoneFromToken(c)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	user, err := h.identity.UpdateProfile(phone, services.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(user)
}
