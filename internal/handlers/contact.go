package handlers

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/services"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
)

// ContactHandler handles the contact form and site feedback.
type ContactHandler struct {
	store  storage.Store
	mailer services.Mailer
}

func NewContactHandler(store storage.Store, mailer services.Mailer) *ContactHandler {
	return &ContactHandler{store: store, mailer: mailer}
}

// SubmitContact stores a contact message and echoes it to the admin inbox.
func (h *ContactHandler) SubmitContact(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "All fields are required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	msg := &models.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message}
	if err := h.store.CreateContactMessage(ctx, msg); err != nil {
		return fail(c, err)
	}

	// Echo to the admin inbox after the row is durable.
	if admin := os.Getenv("ADMIN_EMAIL"); admin != "" {
		body := fmt.Sprintf("You have received a new message from:\n\nName: %s\nEmail: %s\nMessage: %s",
			req.Name, req.Email, req.Message)
		if err := h.mailer.Send(admin, "New Contact Form Submission", body); err != nil {
			log.Printf("Failed to forward contact message %s: %v", msg.Reference, err)
		}
	}

	return c.JSON(fiber.Map{
		"message":   "Message sent successfully!",
		"reference": msg.Reference,
	})
}

// SubmitFeedback stores a feedback entry.
func (h *ContactHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Feedback string `json:"feedback"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" || req.Feedback == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and feedback are required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.store.CreateFeedback(ctx, &models.Feedback{Name: req.Name, Feedback: req.Feedback}); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Feedback submitted successfully!",
	})
}

// ListFeedback returns feedback entries, newest first.
func (h *ContactHandler) ListFeedback(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.store.GetFeedback(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(entries)
}
