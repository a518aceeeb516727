package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
)

// Leaderboard and recent-feed sizes.
const (
	topDonorsLimit       = 10
	recentDonationsLimit = 5
)

// AnalyticsService derives read-only projections over donation history.
// Nothing here mutates state.
type AnalyticsService struct {
	store storage.Store
}

func NewAnalyticsService(store storage.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

func (s *AnalyticsService) Summary(ctx context.Context) (*models.DonationSummary, error) {
	return s.store.GetDonationSummary(ctx)
}

func (s *AnalyticsService) CategoryBreakdown(ctx context.Context) ([]models.CategoryCount, error) {
	return s.store.GetCategoryBreakdown(ctx)
}

func (s *AnalyticsService) QuantityOverTime(ctx context.Context) ([]models.QuantityPoint, error) {
	return s.store.GetQuantityOverTime(ctx)
}

func (s *AnalyticsService) StatusComparison(ctx context.Context) ([]models.StatusPoint, error) {
	return s.store.GetStatusComparison(ctx)
}

func (s *AnalyticsService) TopDonors(ctx context.Context) ([]models.DonorRanking, error) {
	return s.store.GetTopDonors(ctx, topDonorsLimit)
}

func (s *AnalyticsService) RecentDonations(ctx context.Context) ([]models.RecentDonation, error) {
	return s.store.GetRecentDonations(ctx, recentDonationsLimit)
}

// Report is a custom range report: one row per (food, donor, receiver)
// combination inside [from, to], optionally filtered by category. An empty
// window is a reportable no-data condition, not an empty success.
type Report struct {
	ID       string             `json:"report_id"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Category string             `json:"category,omitempty"`
	Rows     []models.ReportRow `json:"rows"`
}

// RangeReport builds the report for the inclusive date range from..to
// ("2006-01-02" strings).
func (s *AnalyticsService) RangeReport(ctx context.Context, from, to, category string) (*Report, error) {
	if from == "" || to == "" {
		return nil, fmt.Errorf("%w: from and to dates are required", apperr.ErrValidation)
	}
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: from date %q must be YYYY-MM-DD", apperr.ErrValidation, from)
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: to date %q must be YYYY-MM-DD", apperr.ErrValidation, to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: to date precedes from date", apperr.ErrValidation)
	}

	rows, err := s.store.GetRangeReport(ctx, models.ReportRequest{
		From:     start,
		To:       end.AddDate(0, 0, 1), // half-open upper bound, inclusive of the "to" day
		Category: category,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.ErrNoData
	}

	return &Report{
		ID:       uuid.NewString(),
		From:     from,
		To:       to,
		Category: category,
		Rows:     rows,
	}, nil
}

// CSV renders the report as a flat table.
func (r *Report) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"food_name", "food_category", "donor", "receiver", "total_kg", "total_plates", "donations"}); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		record := []string{
			row.FoodName,
			row.FoodCategory,
			row.DonorName,
			row.ReceiverName,
			strconv.FormatFloat(row.TotalKg, 'f', -1, 64),
			strconv.FormatFloat(row.TotalPlates, 'f', -1, 64),
			strconv.FormatInt(row.Donations, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
