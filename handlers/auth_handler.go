package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/rahulg963/udhaarbook/configs"
	"github.com/rahulg963/udhaarbook/notifications"
	"github.com/rahulg963/udhaarbook/services"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type AuthHandler struct {
	identity *services.IdentityService
}

func NewAuthHandler(identity *services.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type RegisterRequest struct {
	Phone          string  `json:"phone" validate:"required,len=10,numeric"`
	FullName       string  `json:"full_name" validate:"required,min=2"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Pin            string  `json:"pin" validate:"required,len=4,numeric"`
	ReferredByCode *string `json:"referred_by_code,omitempty"`
}

type LoginRequest struct {
	Phone string `json:"phone" validate:"required,len=10,numeric"`
	Pin   string `json:"pin" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash PIN"})
	}

	user, err := h.identity.CreateUser(services.CreateUserInput{
		Phone:          req.Phone,
		FullName:       req.FullName,
		Email:          req.Email,
		PinHash:        string(pinHash),
		ReferredByCode: req.ReferredByCode,
	})
	if err != nil {
		return serviceError(c, err)
	}

	if user.Email != nil {
		go notifications.SendEmail(user.FullName, *user.Email, "Welcome to UdhaarBook!",
			"<h1>Welcome!</h1><p>Your account is ready. Share your referral code <b>"+user.ReferralCode+"</b> to earn commissions when your network pays the platform fee.</p>")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	user, err := h.identity.GetByPhone(req.Phone)
	if err != nil {
		return serviceError(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid phone or PIN"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(req.Pin)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid phone or PIN"})
	}

	claims := jwt.MapClaims{
		"phone": user.Phone,
		"exp":   time.Now().Add(time.Hour * 72).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	t, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"token": t})
}
