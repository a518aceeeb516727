package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
)

const dateLayout = "2006-01-02"

// DonationService drives the donation state machine:
// Pending -> Accepted -> Completed, forward-only, one claimant at a time.
type DonationService struct {
	store storage.Store

	// strictCompletion requires a donation to be Accepted before it can be
	// completed. The permissive default mirrors how completion has always
	// behaved; the flag exists because the permissive path lets a Pending
	// donation complete with no receiver attached.
	strictCompletion bool
}

func NewDonationService(store storage.Store, strictCompletion bool) *DonationService {
	return &DonationService{store: store, strictCompletion: strictCompletion}
}

// Create records a new donation offer for the donor identified by email.
// The free-form quantity is parsed into a tagged magnitude+unit here, on
// write, so analytics never parses text.
func (s *DonationService) Create(ctx context.Context, req *models.DonationRequest) (*models.Donation, error) {
	if req.Email == "" || req.FoodName == "" || req.Quantity == "" {
		return nil, fmt.Errorf("%w: email, food name, and quantity are required", apperr.ErrValidation)
	}

	quantity, err := models.ParseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	donor, err := s.store.GetDonorByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	donation := &models.Donation{
		DonorID:             donor.ID,
		FoodCategory:        req.FoodCategory,
		FoodName:            req.FoodName,
		QuantityText:        req.Quantity,
		QuantityAmount:      quantity.Amount,
		QuantityUnit:        string(quantity.Unit),
		StorageInstructions: req.StorageInstructions,
		Status:              models.DonationStatusPending,
	}
	if donation.ExpiryDate, err = parseOptionalDate(req.ExpiryDate); err != nil {
		return nil, err
	}
	if donation.PreparationDate, err = parseOptionalDate(req.PreparationDate); err != nil {
		return nil, err
	}

	if err := s.store.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}
	return donation, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperr.ErrValidation, value)
	}
	return &t, nil
}

// ListPending returns the receiver-facing feed of unclaimed donations,
// newest first, with donor contact details attached.
func (s *DonationService) ListPending(ctx context.Context) ([]*models.DonationListing, error) {
	return s.store.GetPendingDonations(ctx)
}

// ListAccepted returns every donation currently claimed and awaiting
// handover, newest first, with both parties named.
func (s *DonationService) ListAccepted(ctx context.Context) ([]*models.HistoryEntry, error) {
	return s.store.GetAcceptedDonations(ctx)
}

// Accept claims a pending donation for the receiver identified by email.
// Under concurrent claims exactly one caller wins; the rest observe
// ErrAlreadyAccepted.
func (s *DonationService) Accept(ctx context.Context, donationID uint, receiverEmail string) error {
	if receiverEmail == "" {
		return fmt.Errorf("%w: email is required", apperr.ErrValidation)
	}
	receiver, err := s.store.GetReceiverByEmail(ctx, receiverEmail)
	if err != nil {
		return err
	}
	return s.store.AcceptDonation(ctx, donationID, receiver.ID, time.Now())
}

// MarkCompleted finishes a donation's lifecycle.
func (s *DonationService) MarkCompleted(ctx context.Context, donationID uint) error {
	return s.store.CompleteDonation(ctx, donationID, s.strictCompletion)
}

// HistoryForDonor lists every donation the donor created, newest first.
func (s *DonationService) HistoryForDonor(ctx context.Context, email string) ([]*models.HistoryEntry, error) {
	donor, err := s.store.GetDonorByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.store.GetDonationsByDonor(ctx, donor.ID)
}

// HistoryForReceiver lists the donations the receiver has accepted and not
// yet completed, newest first.
func (s *DonationService) HistoryForReceiver(ctx context.Context, email string) ([]*models.HistoryEntry, error) {
	receiver, err := s.store.GetReceiverByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.store.GetAcceptedDonationsByReceiver(ctx, receiver.ID)
}

// Rate records or overwrites the receiver's score for a donation it
// accepted. Only the claiming receiver may rate.
func (s *DonationService) Rate(ctx context.Context, req *models.RatingRequest) error {
	if req.DonationID == 0 || req.Email == "" || req.Rating == 0 {
		return fmt.Errorf("%w: donation id, email, and rating are required", apperr.ErrValidation)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrValidation)
	}

	receiver, err := s.store.GetReceiverByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	donation, err := s.store.GetDonation(ctx, req.DonationID)
	if err != nil {
		return err
	}
	if donation.AcceptedBy == nil || *donation.AcceptedBy != receiver.ID {
		return apperr.ErrForbidden
	}

	return s.store.UpsertRating(ctx, &models.Rating{
		DonationID: donation.ID,
		ReceiverID: receiver.ID,
		DonorID:    donation.DonorID,
		Score:      req.Rating,
		Review:     req.Review,
	})
}

// DonorProfile returns a donor's public contact card with its ratings.
func (s *DonationService) DonorProfile(ctx context.Context, donorID uint) (*models.DonorProfile, error) {
	donor, err := s.store.GetDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.store.GetDonorRatings(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if ratings == nil {
		ratings = []models.RatingView{}
	}
	return &models.DonorProfile{
		ID:               donor.ID,
		OrganizationName: donor.OrganizationName,
		Email:            donor.Email,
		Phone:            donor.Phone,
		Address:          donor.Address,
		Ratings:          ratings,
	}, nil
}
