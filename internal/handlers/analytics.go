package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/mealbridge/mealbridge-backend/internal/services"
)

// AnalyticsHandler serves read-only projections over donation history.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	summary, err := h.analytics.Summary(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

func (h *AnalyticsHandler) CategoryBreakdown(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	counts, err := h.analytics.CategoryBreakdown(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(counts)
}

func (h *AnalyticsHandler) QuantityOverTime(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	points, err := h.analytics.QuantityOverTime(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(points)
}

func (h *AnalyticsHandler) StatusComparison(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	points, err := h.analytics.StatusComparison(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(points)
}

func (h *AnalyticsHandler) TopDonors(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	rankings, err := h.analytics.TopDonors(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rankings)
}

func (h *AnalyticsHandler) RecentDonations(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	recent, err := h.analytics.RecentDonations(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(recent)
}

// Report builds the custom range report. Add ?format=csv for a flat
// tabular download.
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := h.analytics.RangeReport(ctx, c.Query("from"), c.Query("to"), c.Query("category"))
	if err != nil {
		return fail(c, err)
	}

	if c.Query("format") == "csv" {
		data, err := report.CSV()
		if err != nil {
			return fail(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="donation-report-%s_%s.csv"`, report.From, report.To))
		return c.Send(data)
	}
	return c.JSON(report)
}
