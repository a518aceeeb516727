package storage

import (
	"context"
	"time"

	"github.com/mealbridge/mealbridge-backend/internal/models"
)

// Store defines the interface for storage operations. Every method takes a
// context with a bounded deadline; read-then-write transitions (promotion,
// approval, acceptance) are atomic inside the store, never in callers.
type Store interface {
	// Registration operations
	EmailInUse(ctx context.Context, email string) (bool, error)
	CreatePendingRegistration(ctx context.Context, reg *models.PendingRegistration) error
	GetPendingRegistration(ctx context.Context, email string) (*models.PendingRegistration, error)
	CreateOtpChallenge(ctx context.Context, challenge *models.OtpChallenge) error
	LatestOtpChallenge(ctx context.Context, email string) (*models.OtpChallenge, error)
	// PromotePendingRegistration copies the pending row into a candidate
	// account, then deletes the pending row and every OTP challenge for the
	// email, all in one transaction. At most one caller can win.
	PromotePendingRegistration(ctx context.Context, email string) (*models.CandidateAccount, error)

	// Approval operations
	GetCandidates(ctx context.Context) ([]*models.CandidateAccount, error)
	ApproveCandidate(ctx context.Context, id uint, userType string) (*models.CandidateAccount, error)
	BlockCandidate(ctx context.Context, id uint) error

	// Roster operations
	GetDonor(ctx context.Context, id uint) (*models.Donor, error)
	GetDonorByEmail(ctx context.Context, email string) (*models.Donor, error)
	GetReceiverByEmail(ctx context.Context, email string) (*models.Receiver, error)

	// Donation operations
	CreateDonation(ctx context.Context, donation *models.Donation) error
	GetDonation(ctx context.Context, id uint) (*models.Donation, error)
	GetPendingDonations(ctx context.Context) ([]*models.DonationListing, error)
	// AcceptDonation flips Pending -> Accepted with a conditional update;
	// exactly one of any number of concurrent callers succeeds.
	AcceptDonation(ctx context.Context, id, receiverID uint, at time.Time) error
	CompleteDonation(ctx context.Context, id uint, requireAccepted bool) error
	GetDonationsByDonor(ctx context.Context, donorID uint) ([]*models.HistoryEntry, error)
	GetAcceptedDonations(ctx context.Context) ([]*models.HistoryEntry, error)
	GetAcceptedDonationsByReceiver(ctx context.Context, receiverID uint) ([]*models.HistoryEntry, error)

	// Rating operations
	UpsertRating(ctx context.Context, rating *models.Rating) error
	GetDonorRatings(ctx context.Context, donorID uint) ([]models.RatingView, error)

	// Analytics operations
	GetDonationSummary(ctx context.Context) (*models.DonationSummary, error)
	GetCategoryBreakdown(ctx context.Context) ([]models.CategoryCount, error)
	GetQuantityOverTime(ctx context.Context) ([]models.QuantityPoint, error)
	GetStatusComparison(ctx context.Context) ([]models.StatusPoint, error)
	GetTopDonors(ctx context.Context, limit int) ([]models.DonorRanking, error)
	GetRecentDonations(ctx context.Context, limit int) ([]models.RecentDonation, error)
	GetRangeReport(ctx context.Context, req models.ReportRequest) ([]models.ReportRow, error)

	// Contact and feedback operations
	CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
	GetFeedback(ctx context.Context) ([]*models.Feedback, error)

	// Maintenance operations (for scheduled jobs)
	DeleteExpiredOtpChallenges(ctx context.Context, olderThan time.Duration) (int64, error)
	DeleteAbandonedRegistrations(ctx context.Context, olderThan time.Duration) (int64, error)
}
