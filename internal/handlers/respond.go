package handlers

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
)

var (
	timeoutOnce  sync.Once
	storeTimeout time.Duration
)

// requestContext derives a bounded-deadline context for store calls so no
// handler blocks indefinitely on the database.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	timeoutOnce.Do(func() {
		storeTimeout = 5 * time.Second
		if v := os.Getenv("STORE_TIMEOUT"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				storeTimeout = d
			}
		}
	})
	return context.WithTimeout(c.UserContext(), storeTimeout)
}

// fail maps a workflow error onto the HTTP taxonomy: 400 validation,
// 401/403 auth, 404 missing entity, 409 conflicting transition, 500
// everything unexpected. Expected errors carry safe messages; unexpected
// ones are logged in full and surface a generic payload.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation),
		errors.Is(err, apperr.ErrInvalidOtp),
		errors.Is(err, apperr.ErrOtpExpired):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrNoData):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrDuplicateEmail),
		errors.Is(err, apperr.ErrAlreadyAccepted),
		errors.Is(err, apperr.ErrNotAccepted),
		errors.Is(err, apperr.ErrCandidateBlocked):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
