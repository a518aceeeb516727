package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/middleware"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/services"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
	"github.com/mealbridge/mealbridge-backend/internal/utils"
)

// AuthHandler handles registration, OTP confirmation, and login.
type AuthHandler struct {
	store        storage.Store
	registration *services.RegistrationService
}

func NewAuthHandler(store storage.Store, registration *services.RegistrationService) *AuthHandler {
	return &AuthHandler{store: store, registration: registration}
}

// Register handles a new organization registration submission.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.registration.Submit(ctx, &req); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "OTP sent. Please verify to complete registration.",
		"email":   req.Email,
	})
}

// VerifyOTP confirms the emailed code and promotes the registration to a
// candidate account.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.registration.Confirm(ctx, req.Email, req.OTP); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "OTP Verified. Registration Complete!",
	})
}

// ResendOTP issues a fresh code for a pending registration.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.registration.ResendOTP(ctx, req.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "OTP re-sent. Please check your inbox.",
	})
}

// Login authenticates against the roster, donors first, then receivers.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	role, hash := "", ""
	if donor, err := h.store.GetDonorByEmail(ctx, req.Email); err == nil {
		role, hash = models.RoleDonor, donor.PasswordHash
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return fail(c, err)
	} else if receiver, err := h.store.GetReceiverByEmail(ctx, req.Email); err == nil {
		role, hash = models.RoleReceiver, receiver.PasswordHash
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return fail(c, err)
	}

	if role == "" || !utils.CheckPassword(req.Password, hash) {
		return fail(c, apperr.ErrUnauthorized)
	}

	token, err := middleware.SignToken(models.NormalizeEmail(req.Email), role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"role":    role,
		"token":   token,
		"message": "Login successful!",
	})
}
