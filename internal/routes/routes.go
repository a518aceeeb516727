package routes

import (
	"os"

	"github.com/mealbridge/mealbridge-backend/internal/handlers"
	"github.com/mealbridge/mealbridge-backend/internal/middleware"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/services"
	"github.com/mealbridge/mealbridge-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, mailer services.Mailer) {

	// Services
	otpService := services.NewOTPService(store)
	registrationService := services.NewRegistrationService(store, otpService, mailer)
	approvalService := services.NewApprovalService(store, mailer)
	donationService := services.NewDonationService(store, os.Getenv("STRICT_COMPLETION") == "true")
	analyticsService := services.NewAnalyticsService(store)

	// Handlers
	authHandler := handlers.NewAuthHandler(store, registrationService)
	adminHandler := handlers.NewAdminHandler(approvalService)
	donationHandler := handlers.NewDonationHandler(donationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	contactHandler := handlers.NewContactHandler(store, mailer)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to MealBridge Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":    "/health",
				"register":  "/register",
				"login":     "/login",
				"donations": "/donations",
				"analytics": "/analytics",
			},
		})
	})

	// Health check
	app.Get("/health", healthHandler.Check)

	// Registration and login
	app.Post("/register", authHandler.Register)
	app.Post("/verify-otp", authHandler.VerifyOTP)
	app.Post("/resend-otp", authHandler.ResendOTP)
	app.Post("/login", authHandler.Login)

	// Admin approval workflow
	app.Get("/users", adminHandler.GetCandidates)
	app.Post("/approve/:id", adminHandler.Approve)
	app.Post("/block/:id", adminHandler.Block)

	// Donation lifecycle
	app.Post("/donate", middleware.RequireRole(models.RoleDonor), donationHandler.Create)
	app.Get("/donations", donationHandler.ListPending)

	donations := app.Group("/donations")
	donations.Get("/accepted", donationHandler.ListAccepted)
	donations.Post("/accept/:id", middleware.RequireRole(models.RoleReceiver), donationHandler.Accept)
	donations.Post("/complete/:id", middleware.RequireRole(models.RoleReceiver), donationHandler.MarkCompleted)
	donations.Get("/donor/history", middleware.RequireRole(models.RoleDonor), donationHandler.DonorHistory)
	donations.Get("/receiver/history", middleware.RequireRole(models.RoleReceiver), donationHandler.ReceiverHistory)
	donations.Post("/rate", middleware.RequireRole(models.RoleReceiver), donationHandler.Rate)

	app.Get("/donor-profile/:id", donationHandler.DonorProfile)

	// Analytics
	analytics := app.Group("/analytics")
	analytics.Get("/summary", analyticsHandler.Summary)
	analytics.Get("/category-wise-donations", analyticsHandler.CategoryBreakdown)
	analytics.Get("/quantity-over-time", analyticsHandler.QuantityOverTime)
	analytics.Get("/status-comparison", analyticsHandler.StatusComparison)
	analytics.Get("/top-donors", analyticsHandler.TopDonors)
	analytics.Get("/recent-donations", analyticsHandler.RecentDonations)
	analytics.Get("/report", analyticsHandler.Report)

	// Contact and feedback
	api := app.Group("/api")
	api.Post("/contact", contactHandler.SubmitContact)
	api.Post("/feedback", contactHandler.SubmitFeedback)
	api.Get("/feedbacks", contactHandler.ListFeedback)
}
