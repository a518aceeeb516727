package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
	"github.com/mealbridge/mealbridge-backend/internal/utils"
)

// RegistrationService orchestrates onboarding: pending registration,
// OTP issuance and confirmation, and promotion to a candidate account.
type RegistrationService struct {
	store  storage.Store
	otp    *OTPService
	mailer Mailer
}

func NewRegistrationService(store storage.Store, otp *OTPService, mailer Mailer) *RegistrationService {
	return &RegistrationService{store: store, otp: otp, mailer: mailer}
}

// Submit validates and stores a registration, then issues an OTP and mails
// it. The pending row is durable before the mail leaves; a delivery failure
// is logged and the registration stands (the code can be re-requested).
func (s *RegistrationService) Submit(ctx context.Context, req *models.RegistrationRequest) error {
	if req.Incomplete() {
		return fmt.Errorf("%w: all fields are required", apperr.ErrValidation)
	}
	if !models.ValidUserType(req.UserType) {
		return fmt.Errorf("%w: user type must be Donor or Receiver", apperr.ErrValidation)
	}

	inUse, err := s.store.EmailInUse(ctx, req.Email)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	pending := &models.PendingRegistration{
		Email:            req.Email,
		UserType:         req.UserType,
		OrganizationName: req.OrganizationName,
		OrganizationType: req.OrganizationType,
		Phone:            req.Phone,
		Address:          req.Address,
		PasswordHash:     hash,
	}
	if err := s.store.CreatePendingRegistration(ctx, pending); err != nil {
		return err
	}

	code, err := s.otp.Issue(ctx, req.Email)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(req.Email,
		"Your OTP for Registration",
		fmt.Sprintf("Your OTP code is %s. It is valid for 5 minutes.", code),
	); err != nil {
		log.Printf("Failed to deliver OTP email to %s: %v", req.Email, err)
	}
	return nil
}

// ResendOTP issues a new code for an existing pending registration. The old
// code stops working immediately since only the newest challenge counts.
func (s *RegistrationService) ResendOTP(ctx context.Context, email string) error {
	if _, err := s.store.GetPendingRegistration(ctx, email); err != nil {
		return err
	}
	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(email,
		"Your OTP for Registration",
		fmt.Sprintf("Your OTP code is %s. It is valid for 5 minutes.", code),
	); err != nil {
		log.Printf("Failed to deliver OTP email to %s: %v", email, err)
	}
	return nil
}

// Confirm checks the submitted code and, when valid, promotes the pending
// registration into a candidate account awaiting admin approval. Promotion
// is at-most-once: the store runs copy-then-delete in one transaction, so a
// concurrent duplicate confirmation observes NotFound.
func (s *RegistrationService) Confirm(ctx context.Context, email, code string) (*models.CandidateAccount, error) {
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email and otp are required", apperr.ErrValidation)
	}
	// A consumed or never-submitted registration reads as NotFound, which
	// also covers re-confirming after a successful promotion.
	if _, err := s.store.GetPendingRegistration(ctx, email); err != nil {
		return nil, err
	}
	if err := s.otp.Confirm(ctx, email, code); err != nil {
		return nil, err
	}
	return s.store.PromotePendingRegistration(ctx, email)
}
