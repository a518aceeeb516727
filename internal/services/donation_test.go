package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
)

// onboard takes an email all the way into the roster.
func onboard(t *testing.T, store *storage.MemoryStore, email, userType string) {
	t.Helper()
	candidate := submitAndConfirm(t, store, email, userType)
	_, err := NewApprovalService(store, &recordingMailer{}).Approve(context.Background(), candidate.ID, userType)
	require.NoError(t, err)
}

func donationRequest(email, quantity string) *models.DonationRequest {
	return &models.DonationRequest{
		Email:        email,
		FoodCategory: "Cooked Food",
		FoodName:     "Vegetable Biryani",
		Quantity:     quantity,
	}
}

func TestCreateDonationParsesQuantity(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewDonationService(store, false)
	ctx := context.Background()

	onboard(t, store, "hotel@example.com", models.UserTypeDonor)

	donation, err := svc.Create(ctx, donationRequest("hotel@example.com", "10kg"))
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusPending, donation.Status)
	assert.Equal(t, "10kg", donation.QuantityText)
	assert.Equal(t, 10.0, donation.QuantityAmount)
	assert.Equal(t, string(models.UnitKilograms), donation.QuantityUnit)
}

func TestCreateDonationValidation(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewDonationService(store, false)
	ctx := context.Background()

	onboard(t, store, "strictdonor@example.com", models.UserTypeDonor)

	_, err := svc.Create(ctx, donationRequest("strictdonor@example.com", ""))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, donationRequest("strictdonor@example.com", "10 liters"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	req := donationRequest("strictdonor@example.com", "10kg")
	req.ExpiryDate = "31-12-2026"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// An unknown donor cannot donate.
	_, err = svc.Create(ctx, donationRequest("stranger@example.com", "10kg"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConcurrentAcceptHasOneWinner(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewDonationService(store, false)
	ctx := context.Background()

	onboard(t, store, "race-donor@example.com", models.UserTypeDonor)
	emails := []string{"ngo1@example.com", "ngo2@example.com", "ngo3@example.com", "ngo4@example.com"}
	for _, email := range emails {
		onboard(t, store, email, models.UserTypeReceiver)
	}

	donation, err := svc.Create(ctx, donationRequest("race-donor@example.com", "60 plates"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, len(emails))
	for i, email := range emails {
		wg.Add(1)
		go func(n int, e string) {
			defer wg.Done()
			errs[n] = svc.Accept(context.Background(), donation.ID, e)
		}(i, email)
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
}

func TestAcceptThenHistories(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewDonationService(store, false)
	ctx := context.Background()

	onboard(t, store, "mess@example.com", models.UserTypeDonor)
	onboard(t, store, "shelter@example.com", models.UserTypeReceiver)

	donation, err := svc.Create(ctx, donationRequest("mess@example.com", "25 plates"))
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, donation.ID, "shelter@example.com"))

	donorSide, err := svc.HistoryForDonor(ctx, "mess@example.com")
	require.NoError(t, err)
	require.Len(t, donorSide, 1)
	assert.Equal(t, models.DonationStatusAccepted, donorSide[0].Status)
	assert.NotEmpty(t, donorSide[0].ReceiverName)

	receiverSide, err := svc.HistoryForReceiver(ctx, "shelter@example.com")
	require.NoError(t, err)
	require.Len(t, receiverSide, 1)
	assert.Equal(t, donation.ID, receiverSide[0].DonationID)

	// Completion removes it from the receiver's active list.
	require.NoError(t, svc.MarkCompleted(ctx, donation.ID))
	receiverSide, err = svc.HistoryForReceiver(ctx, "shelter@example.com")
	require.NoError(t, err)
	assert.Empty(t, receiverSide)

	// The donor keeps the full record.
	donorSide, err = svc.HistoryForDonor(ctx, "mess@example.com")
	require.NoError(t, err)
	require.Len(t, donorSide, 1)
	assert.Equal(t, models.DonationStatusCompleted, donorSide[0].Status)
}

func TestStrictCompletionRequiresAccepted(t *testing.T) {
	store := storage.NewMemoryStore()
	strict := NewDonationService(store, true)
	ctx := context.Background()

	onboard(t, store, "careful@example.com", models.UserTypeDonor)
	donation, err := strict.Create(ctx, donationRequest("careful@example.com", "5kg"))
	require.NoError(t, err)

	assert.ErrorIs(t, strict.MarkCompleted(ctx, donation.ID), apperr.ErrNotAccepted)
}

func TestRateRequiresClaimingReceiver(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewDonationService(store, false)
	ctx := context.Background()

	onboard(t, store, "chef@example.com", models.UserTypeDonor)
	onboard(t, store, "claimer@example.com", models.UserTypeReceiver)
	onboard(t, store, "bystander@example.com", models.UserTypeReceiver)

	donation, err := svc.Create(ctx, donationRequest("chef@example.com", "8kg"))
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, donation.ID, "claimer@example.com"))

	// Only the claimant may rate.
	err = svc.Rate(ctx, &models.RatingRequest{DonationID: donation.ID, Email: "bystander@example.com", Rating: 4})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Score bounds.
	err = svc.Rate(ctx, &models.RatingRequest{DonationID: donation.ID, Email: "claimer@example.com", Rating: 6})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, svc.Rate(ctx, &models.RatingRequest{
		DonationID: donation.ID, Email: "claimer@example.com", Rating: 5, Review: "fresh and on time",
	}))

	// Re-rating overwrites instead of duplicating.
	require.NoError(t, svc.Rate(ctx, &models.RatingRequest{
		DonationID: donation.ID, Email: "claimer@example.com", Rating: 3,
	}))

	donor, err := store.GetDonorByEmail(ctx, "chef@example.com")
	require.NoError(t, err)
	profile, err := svc.DonorProfile(ctx, donor.ID)
	require.NoError(t, err)
	require.Len(t, profile.Ratings, 1)
	assert.Equal(t, 3, profile.Ratings[0].Score)
}

func TestDonorProfileWithoutRatings(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewDonationService(store, false)
	ctx := context.Background()

	onboard(t, store, "unrated@example.com", models.UserTypeDonor)
	donor, err := store.GetDonorByEmail(ctx, "unrated@example.com")
	require.NoError(t, err)

	profile, err := svc.DonorProfile(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, donor.Email, profile.Email)
	assert.NotNil(t, profile.Ratings)
	assert.Empty(t, profile.Ratings)

	_, err = svc.DonorProfile(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
