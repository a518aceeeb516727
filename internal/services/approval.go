package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
	"github.com/mealbridge/mealbridge-backend/internal/storage"
)

// ApprovalService moves verified candidates into the donor/receiver roster
// or blocks them.
type ApprovalService struct {
	store  storage.Store
	mailer Mailer
}

func NewApprovalService(store storage.Store, mailer Mailer) *ApprovalService {
	return &ApprovalService{store: store, mailer: mailer}
}

// ListCandidates returns the candidates still awaiting a decision.
func (s *ApprovalService) ListCandidates(ctx context.Context) ([]*models.CandidateAccount, error) {
	return s.store.GetCandidates(ctx)
}

// Approve promotes a candidate into the requested roster. The roster insert
// and candidate delete commit together; the notification email goes out
// afterwards and its failure never rolls the approval back.
func (s *ApprovalService) Approve(ctx context.Context, candidateID uint, userType string) (*models.CandidateAccount, error) {
	if !models.ValidUserType(userType) {
		return nil, fmt.Errorf("%w: user type must be Donor or Receiver", apperr.ErrValidation)
	}

	candidate, err := s.store.ApproveCandidate(ctx, candidateID, userType)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nYour registration request has been approved! You can now log in and start using our services.\n\nBest Regards,\nAdmin Team",
		candidate.OrganizationName,
	)
	if err := s.mailer.Send(candidate.Email, "Your Registration Request has been Approved!", body); err != nil {
		log.Printf("Failed to send approval email to %s: %v", candidate.Email, err)
	}
	return candidate, nil
}

// Block marks a candidate as blocked. The row stays behind as an audit
// trail; blocked candidates disappear from the listing and cannot be
// approved later.
func (s *ApprovalService) Block(ctx context.Context, candidateID uint) error {
	return s.store.BlockCandidate(ctx, candidateID)
}
