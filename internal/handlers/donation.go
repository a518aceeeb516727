package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/services"
)

// DonationHandler handles the donation lifecycle and ratings.
type DonationHandler struct {
	donations *services.DonationService
}

func NewDonationHandler(donations *services.DonationService) *DonationHandler {
	return &DonationHandler{donations: donations}
}

// callerEmail returns the authenticated identity set by the auth
// middleware. Handlers behind RequireRole can rely on it being present.
func callerEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

// Create records a new donation offer for the logged-in donor.
func (h *DonationHandler) Create(c *fiber.Ctx) error {
	var req models.DonationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	// The owning donor is always the authenticated caller.
	req.Email = callerEmail(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	donation, err := h.donations.Create(ctx, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "🎉 Food donation recorded successfully!",
		"donation_id": donation.ID,
	})
}

// ListPending returns the feed of unclaimed donations with donor contact.
func (h *DonationHandler) ListPending(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	listings, err := h.donations.ListPending(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"donations": listings,
		"count":     len(listings),
	})
}

// ListAccepted returns the donations currently in the Accepted state.
func (h *DonationHandler) ListAccepted(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.donations.ListAccepted(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"donations": entries,
		"count":     len(entries),
	})
}

// Accept claims a pending donation for the logged-in receiver.
func (h *DonationHandler) Accept(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Donation ID is required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.donations.Accept(ctx, uint(id), callerEmail(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Donation accepted successfully",
	})
}

// MarkCompleted finishes a donation.
func (h *DonationHandler) MarkCompleted(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Donation ID is required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.donations.MarkCompleted(ctx, uint(id)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Donation marked as completed",
	})
}

// DonorHistory lists the logged-in donor's donations, newest first.
func (h *DonationHandler) DonorHistory(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.donations.HistoryForDonor(ctx, callerEmail(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"donations": entries,
		"count":     len(entries),
	})
}

// ReceiverHistory lists what the logged-in receiver has accepted.
func (h *DonationHandler) ReceiverHistory(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.donations.HistoryForReceiver(ctx, callerEmail(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"donations": entries,
		"count":     len(entries),
	})
}

// Rate records the logged-in receiver's score for an accepted donation.
func (h *DonationHandler) Rate(c *fiber.Ctx) error {
	var req models.RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.Email = callerEmail(c)

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.donations.Rate(ctx, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Rating submitted successfully",
	})
}

// DonorProfile returns a donor's contact card and received ratings.
func (h *DonationHandler) DonorProfile(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Donor ID is required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	profile, err := h.donations.DonorProfile(ctx, uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}
