package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge-backend/internal/services"
)

// AdminHandler handles the approval workflow over candidate accounts.
type AdminHandler struct {
	approval *services.ApprovalService
}

func NewAdminHandler(approval *services.ApprovalService) *AdminHandler {
	return &AdminHandler{approval: approval}
}

// GetCandidates lists verified candidates awaiting an approval decision.
func (h *AdminHandler) GetCandidates(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	candidates, err := h.approval.ListCandidates(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"candidates": candidates,
		"count":      len(candidates),
	})
}

// Approve promotes a candidate into the Donor or Receiver roster.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Candidate ID is required",
		})
	}

	var req struct {
		UserType string `json:"userType"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User type is required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	candidate, err := h.approval.Approve(ctx, uint(id), req.UserType)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Candidate approved successfully",
		"email":   candidate.Email,
	})
}

// Block rejects a candidate. The row is kept with a blocked status.
func (h *AdminHandler) Block(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Candidate ID is required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.approval.Block(ctx, uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User blocked successfully",
	})
}
