package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
)

func newPending(email string) *models.PendingRegistration {
	return &models.PendingRegistration{
		Email:            email,
		UserType:         models.UserTypeDonor,
		OrganizationName: "Annapurna Mess",
		OrganizationType: "Mess",
		Phone:            "9876543210",
		Address:          "12 Market Road",
		PasswordHash:     "$2a$10$fakefakefakefakefakefa",
	}
}

// registerDonor walks an email through pending -> candidate -> donor roster.
func registerDonor(t *testing.T, store *MemoryStore, email string) *models.Donor {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.CreatePendingRegistration(ctx, newPending(email)))
	candidate, err := store.PromotePendingRegistration(ctx, email)
	require.NoError(t, err)
	_, err = store.ApproveCandidate(ctx, candidate.ID, models.UserTypeDonor)
	require.NoError(t, err)

	donor, err := store.GetDonorByEmail(ctx, email)
	require.NoError(t, err)
	return donor
}

func registerReceiver(t *testing.T, store *MemoryStore, email string) *models.Receiver {
	t.Helper()
	ctx := context.Background()

	pending := newPending(email)
	pending.UserType = models.UserTypeReceiver
	require.NoError(t, store.CreatePendingRegistration(ctx, pending))
	candidate, err := store.PromotePendingRegistration(ctx, email)
	require.NoError(t, err)
	_, err = store.ApproveCandidate(ctx, candidate.ID, models.UserTypeReceiver)
	require.NoError(t, err)

	receiver, err := store.GetReceiverByEmail(ctx, email)
	require.NoError(t, err)
	return receiver
}

func seedDonation(t *testing.T, store *MemoryStore, donorID uint, name, unit string, amount float64) *models.Donation {
	t.Helper()
	donation := &models.Donation{
		DonorID:        donorID,
		FoodCategory:   "Cooked Food",
		FoodName:       name,
		QuantityText:   "n/a",
		QuantityAmount: amount,
		QuantityUnit:   unit,
	}
	require.NoError(t, store.CreateDonation(context.Background(), donation))
	return donation
}

func TestEmailInUseAcrossAllTables(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	inUse, err := store.EmailInUse(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, inUse)

	// Pending.
	require.NoError(t, store.CreatePendingRegistration(ctx, newPending("a@example.com")))
	inUse, _ = store.EmailInUse(ctx, "a@example.com")
	assert.True(t, inUse)

	// Case-insensitive.
	inUse, _ = store.EmailInUse(ctx, "A@Example.COM")
	assert.True(t, inUse)

	// Candidate.
	_, err = store.PromotePendingRegistration(ctx, "a@example.com")
	require.NoError(t, err)
	inUse, _ = store.EmailInUse(ctx, "a@example.com")
	assert.True(t, inUse)

	// Roster. An approved donor must still claim the address.
	registerDonor(t, store, "b@example.com")
	inUse, _ = store.EmailInUse(ctx, "b@example.com")
	assert.True(t, inUse)
}

func TestPromotePendingRegistration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreatePendingRegistration(ctx, newPending("x@example.com")))
	require.NoError(t, store.CreateOtpChallenge(ctx, &models.OtpChallenge{Email: "x@example.com", Code: "123456"}))

	candidate, err := store.PromotePendingRegistration(ctx, "x@example.com")
	require.NoError(t, err)
	assert.Equal(t, "x@example.com", candidate.Email)
	assert.Equal(t, models.CandidateStatusActive, candidate.Status)

	// Pending row and challenges are gone in the same step.
	_, err = store.GetPendingRegistration(ctx, "x@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = store.LatestOtpChallenge(ctx, "x@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// A second promotion finds nothing to promote.
	_, err = store.PromotePendingRegistration(ctx, "x@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApproveCandidate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreatePendingRegistration(ctx, newPending("y@example.com")))
	candidate, err := store.PromotePendingRegistration(ctx, "y@example.com")
	require.NoError(t, err)

	approved, err := store.ApproveCandidate(ctx, candidate.ID, models.UserTypeDonor)
	require.NoError(t, err)
	assert.Equal(t, candidate.Email, approved.Email)

	donor, err := store.GetDonorByEmail(ctx, "y@example.com")
	require.NoError(t, err)
	assert.Equal(t, candidate.OrganizationName, donor.OrganizationName)
	assert.Equal(t, candidate.PasswordHash, donor.PasswordHash)
	// Registration time survives the move.
	assert.Equal(t, candidate.CreatedAt, donor.CreatedAt)

	// The candidate row is consumed.
	candidates, err := store.GetCandidates(ctx)
	require.NoError(t, err)
	assert.Empty(t, candidates)
	_, err = store.ApproveCandidate(ctx, candidate.ID, models.UserTypeDonor)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBlockedCandidateCannotBeApproved(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreatePendingRegistration(ctx, newPending("z@example.com")))
	candidate, err := store.PromotePendingRegistration(ctx, "z@example.com")
	require.NoError(t, err)

	require.NoError(t, store.BlockCandidate(ctx, candidate.ID))

	candidates, err := store.GetCandidates(ctx)
	require.NoError(t, err)
	assert.Empty(t, candidates, "blocked candidates must not be listed")

	_, err = store.ApproveCandidate(ctx, candidate.ID, models.UserTypeDonor)
	assert.ErrorIs(t, err, apperr.ErrCandidateBlocked)
}

func TestLatestOtpChallengeWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	old := &models.OtpChallenge{Email: "o@example.com", Code: "111111"}
	old.CreatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.CreateOtpChallenge(ctx, old))
	require.NoError(t, store.CreateOtpChallenge(ctx, &models.OtpChallenge{Email: "o@example.com", Code: "222222"}))

	latest, err := store.LatestOtpChallenge(ctx, "o@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", latest.Code)
}

func TestAcceptDonationExactlyOneWinner(t *testing.T) {
	store := NewMemoryStore()
	donor := registerDonor(t, store, "donor@example.com")
	donation := seedDonation(t, store, donor.ID, "Rice", string(models.UnitKilograms), 10)

	const claimants = 16
	var wg sync.WaitGroup
	errs := make([]error, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = store.AcceptDonation(context.Background(), donation.ID, uint(n+1), time.Now())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, apperr.ErrAlreadyAccepted)
		}
	}
	assert.Equal(t, 1, winners)

	got, err := store.GetDonation(context.Background(), donation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusAccepted, got.Status)
	require.NotNil(t, got.AcceptedBy)
	require.NotNil(t, got.AcceptedAt)
}

func TestCompleteDonationStrictness(t *testing.T) {
	store := NewMemoryStore()
	donor := registerDonor(t, store, "donor2@example.com")
	ctx := context.Background()

	pending := seedDonation(t, store, donor.ID, "Dal", string(models.UnitKilograms), 4)

	// Strict mode refuses a Pending donation.
	err := store.CompleteDonation(ctx, pending.ID, true)
	assert.ErrorIs(t, err, apperr.ErrNotAccepted)

	// Permissive mode takes it as-is.
	require.NoError(t, store.CompleteDonation(ctx, pending.ID, false))
	got, err := store.GetDonation(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusCompleted, got.Status)

	assert.ErrorIs(t, store.CompleteDonation(ctx, 999, false), apperr.ErrNotFound)
}

func TestPendingFeedNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	donor := registerDonor(t, store, "feed@example.com")
	ctx := context.Background()

	older := seedDonation(t, store, donor.ID, "Idli", string(models.UnitPlates), 30)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := seedDonation(t, store, donor.ID, "Dosa", string(models.UnitPlates), 20)

	// An accepted donation drops out of the feed.
	claimed := seedDonation(t, store, donor.ID, "Sambar", string(models.UnitKilograms), 5)
	require.NoError(t, store.AcceptDonation(ctx, claimed.ID, 1, time.Now()))

	listings, err := store.GetPendingDonations(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, newer.ID, listings[0].DonationID)
	assert.Equal(t, older.ID, listings[1].DonationID)
	assert.Equal(t, donor.OrganizationName, listings[0].OrganizationName)
}

func TestAcceptedListingAcrossReceivers(t *testing.T) {
	store := NewMemoryStore()
	donor := registerDonor(t, store, "kitchen@example.com")
	first := registerReceiver(t, store, "first@example.com")
	second := registerReceiver(t, store, "second@example.com")
	ctx := context.Background()

	a := seedDonation(t, store, donor.ID, "Upma", string(models.UnitPlates), 15)
	b := seedDonation(t, store, donor.ID, "Poha", string(models.UnitPlates), 10)
	require.NoError(t, store.AcceptDonation(ctx, a.ID, first.ID, time.Now()))
	require.NoError(t, store.AcceptDonation(ctx, b.ID, second.ID, time.Now()))

	// Pending and completed donations stay out of the listing.
	seedDonation(t, store, donor.ID, "Halwa", string(models.UnitKilograms), 2)
	require.NoError(t, store.CompleteDonation(ctx, b.ID, false))

	entries, err := store.GetAcceptedDonations(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, a.ID, entries[0].DonationID)
	assert.Equal(t, donor.OrganizationName, entries[0].DonorName)
	assert.Equal(t, first.OrganizationName, entries[0].ReceiverName)
}

func TestUpsertRatingOverwrites(t *testing.T) {
	store := NewMemoryStore()
	donor := registerDonor(t, store, "rated@example.com")
	receiver := registerReceiver(t, store, "rater@example.com")
	donation := seedDonation(t, store, donor.ID, "Pulao", string(models.UnitPlates), 25)
	ctx := context.Background()

	require.NoError(t, store.UpsertRating(ctx, &models.Rating{
		DonationID: donation.ID, ReceiverID: receiver.ID, DonorID: donor.ID, Score: 3, Review: "ok",
	}))
	require.NoError(t, store.UpsertRating(ctx, &models.Rating{
		DonationID: donation.ID, ReceiverID: receiver.ID, DonorID: donor.ID, Score: 5, Review: "great",
	}))

	views, err := store.GetDonorRatings(ctx, donor.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 5, views[0].Score)
	assert.Equal(t, "great", views[0].Review)
	assert.Equal(t, receiver.OrganizationName, views[0].ReceiverName)
}

func TestQuantityOverTimeBucketsByUnit(t *testing.T) {
	store := NewMemoryStore()
	donor := registerDonor(t, store, "q@example.com")
	ctx := context.Background()

	kg := seedDonation(t, store, donor.ID, "Rice", string(models.UnitKilograms), 10)
	plates := seedDonation(t, store, donor.ID, "Meals", string(models.UnitPlates), 40)
	require.NoError(t, store.AcceptDonation(ctx, kg.ID, 1, time.Now()))
	require.NoError(t, store.AcceptDonation(ctx, plates.ID, 1, time.Now()))

	// Still-pending donations do not count.
	seedDonation(t, store, donor.ID, "Extra", string(models.UnitKilograms), 99)

	points, err := store.GetQuantityOverTime(ctx)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), points[0].Date)
	assert.Equal(t, 10.0, points[0].TotalKg)
	assert.Equal(t, 40.0, points[0].TotalPlates)
}

func TestRangeReport(t *testing.T) {
	store := NewMemoryStore()
	donor := registerDonor(t, store, "report@example.com")
	receiver := registerReceiver(t, store, "claims@example.com")
	ctx := context.Background()

	d := seedDonation(t, store, donor.ID, "Chapati", string(models.UnitPlates), 50)
	require.NoError(t, store.AcceptDonation(ctx, d.ID, receiver.ID, time.Now()))
	seedDonation(t, store, donor.ID, "Chapati", string(models.UnitPlates), 30)

	today := time.Now().Truncate(24 * time.Hour)
	rows, err := store.GetRangeReport(ctx, models.ReportRequest{
		From: today, To: today.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2, "claimed and unclaimed rows stay separate")

	var claimed, unclaimed *models.ReportRow
	for i := range rows {
		if rows[i].ReceiverName != "" {
			claimed = &rows[i]
		} else {
			unclaimed = &rows[i]
		}
	}
	require.NotNil(t, claimed)
	require.NotNil(t, unclaimed)
	assert.Equal(t, 50.0, claimed.TotalPlates)
	assert.Equal(t, 30.0, unclaimed.TotalPlates)

	// A window before any donation yields nothing.
	rows, err = store.GetRangeReport(ctx, models.ReportRequest{
		From: today.AddDate(0, 0, -10), To: today.AddDate(0, 0, -9),
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMaintenanceSweeps(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	fresh := &models.OtpChallenge{Email: "fresh@example.com", Code: "123456"}
	require.NoError(t, store.CreateOtpChallenge(ctx, fresh))
	stale := &models.OtpChallenge{Email: "stale@example.com", Code: "654321"}
	stale.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.CreateOtpChallenge(ctx, stale))

	removed, err := store.DeleteExpiredOtpChallenges(ctx, models.OtpValidity)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, err = store.LatestOtpChallenge(ctx, "fresh@example.com")
	assert.NoError(t, err)
	_, err = store.LatestOtpChallenge(ctx, "stale@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	abandoned := newPending("gone@example.com")
	abandoned.Model = gorm.Model{CreatedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, store.CreatePendingRegistration(ctx, abandoned))
	require.NoError(t, store.CreatePendingRegistration(ctx, newPending("alive@example.com")))

	removed, err = store.DeleteAbandonedRegistrations(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	_, err = store.GetPendingRegistration(ctx, "alive@example.com")
	assert.NoError(t, err)
}
