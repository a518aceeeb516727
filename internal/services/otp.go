package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
	"github.com/mealbridge/mealbridge-backend/internal/utils"
)

// OTPService issues and confirms the one-time codes that prove control of
// an email address during registration.
type OTPService struct {
	store storage.Store
	now   func() time.Time
}

func NewOTPService(store storage.Store) *OTPService {
	return &OTPService{store: store, now: time.Now}
}

// Issue generates a fresh 6-digit code and persists it. Prior codes for the
// same email are kept but stop being authoritative: Confirm only ever looks
// at the newest challenge.
func (s *OTPService) Issue(ctx context.Context, email string) (string, error) {
	code, err := utils.GenerateOTPCode()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	challenge := &models.OtpChallenge{Email: email, Code: code}
	if err := s.store.CreateOtpChallenge(ctx, challenge); err != nil {
		return "", err
	}
	return code, nil
}

// Confirm checks a submitted code against the most recently issued
// challenge. Older unexpired codes are never honored. On success the
// challenge is consumed; a second confirmation with the same code fails.
func (s *OTPService) Confirm(ctx context.Context, email, submittedCode string) error {
	challenge, err := s.store.LatestOtpChallenge(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrInvalidOtp
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(submittedCode)) != 1 {
		return apperr.ErrInvalidOtp
	}
	if challenge.Expired(s.now()) {
		return apperr.ErrOtpExpired
	}
	return nil
}
