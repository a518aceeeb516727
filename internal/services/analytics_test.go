package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
)

// seedMarketplace onboards a donor and receiver and runs two donations
// through the lifecycle: "10kg" accepted, "40 plates" completed, plus one
// still-pending offer.
func seedMarketplace(t *testing.T, store *storage.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	donations := NewDonationService(store, false)

	onboard(t, store, "kitchen@example.com", models.UserTypeDonor)
	onboard(t, store, "orphanage@example.com", models.UserTypeReceiver)

	rice, err := donations.Create(ctx, &models.DonationRequest{
		Email: "kitchen@example.com", FoodCategory: "Raw Food", FoodName: "Rice", Quantity: "10kg",
	})
	require.NoError(t, err)
	require.NoError(t, donations.Accept(ctx, rice.ID, "orphanage@example.com"))

	meals, err := donations.Create(ctx, &models.DonationRequest{
		Email: "kitchen@example.com", FoodCategory: "Cooked Food", FoodName: "Thali Meals", Quantity: "40 plates",
	})
	require.NoError(t, err)
	require.NoError(t, donations.Accept(ctx, meals.ID, "orphanage@example.com"))
	require.NoError(t, donations.MarkCompleted(ctx, meals.ID))

	_, err = donations.Create(ctx, &models.DonationRequest{
		Email: "kitchen@example.com", FoodCategory: "Cooked Food", FoodName: "Curd Rice", Quantity: "12 plates",
	})
	require.NoError(t, err)
}

func TestSummaryTotals(t *testing.T) {
	store := storage.NewMemoryStore()
	seedMarketplace(t, store)

	summary, err := NewAnalyticsService(store).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, int64(1), summary.Pending)
	assert.Equal(t, int64(1), summary.Accepted)
	assert.Equal(t, int64(1), summary.Completed)
}

func TestCategoryBreakdownSkipsPending(t *testing.T) {
	store := storage.NewMemoryStore()
	seedMarketplace(t, store)

	counts, err := NewAnalyticsService(store).CategoryBreakdown(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byCategory := map[string]int64{}
	for _, c := range counts {
		byCategory[c.FoodCategory] = c.DonationsCount
	}
	assert.Equal(t, int64(1), byCategory["Raw Food"])
	assert.Equal(t, int64(1), byCategory["Cooked Food"], "the pending Curd Rice must not count")
}

func TestQuantityRoundTripThroughTimeSeries(t *testing.T) {
	store := storage.NewMemoryStore()
	seedMarketplace(t, store)

	points, err := NewAnalyticsService(store).QuantityOverTime(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 1)

	// The "10kg" donation lands in the kg bucket, the "40 plates" one in
	// plates; the units never mix.
	assert.Equal(t, 10.0, points[0].TotalKg)
	assert.Equal(t, 40.0, points[0].TotalPlates)
}

func TestTopDonorsRanking(t *testing.T) {
	store := storage.NewMemoryStore()
	seedMarketplace(t, store)

	rankings, err := NewAnalyticsService(store).TopDonors(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings, 1)
	assert.Equal(t, 10.0, rankings[0].TotalKg)
	assert.Equal(t, 40.0, rankings[0].TotalPlates)
}

func TestRecentDonationsFeed(t *testing.T) {
	store := storage.NewMemoryStore()
	seedMarketplace(t, store)

	recent, err := NewAnalyticsService(store).RecentDonations(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 3)
	for _, r := range recent {
		assert.NotEmpty(t, r.DonorName)
	}
}

func TestRangeReportAndCSV(t *testing.T) {
	store := storage.NewMemoryStore()
	seedMarketplace(t, store)
	svc := NewAnalyticsService(store)
	ctx := context.Background()

	from := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	to := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	report, err := svc.RangeReport(ctx, from, to, "")
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	require.Len(t, report.Rows, 3)

	csvBytes, err := report.CSV()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvBytes)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "food_name,food_category,donor,receiver,total_kg,total_plates,donations", lines[0])

	// Category filter narrows the rows.
	filtered, err := svc.RangeReport(ctx, from, to, "Raw Food")
	require.NoError(t, err)
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, "Rice", filtered.Rows[0].FoodName)
	assert.Equal(t, 10.0, filtered.Rows[0].TotalKg)
}

func TestRangeReportErrors(t *testing.T) {
	store := storage.NewMemoryStore()
	seedMarketplace(t, store)
	svc := NewAnalyticsService(store)
	ctx := context.Background()

	_, err := svc.RangeReport(ctx, "", "2026-01-31", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.RangeReport(ctx, "01/01/2026", "2026-01-31", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.RangeReport(ctx, "2026-02-01", "2026-01-01", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// A window with no donations is a reportable no-data condition.
	_, err = svc.RangeReport(ctx, "2001-01-01", "2001-01-02", "")
	assert.ErrorIs(t, err, apperr.ErrNoData)
}
