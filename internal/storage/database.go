package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
)

// DatabaseStore is the PostgreSQL-backed store. Deletes on staging tables
// (pending registrations, candidates, OTP challenges) are hard deletes so
// the unique email/phone indexes are freed for re-registration.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given gorm connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// ===== Registration operations =====

func (s *DatabaseStore) EmailInUse(ctx context.Context, email string) (bool, error) {
	email = models.NormalizeEmail(email)
	// Cross-table check: staging tables AND the final roster. The roster
	// check closes the re-registration loophole for approved accounts.
	for _, model := range []interface{}{
		&models.PendingRegistration{},
		&models.CandidateAccount{},
		&models.Donor{},
		&models.Receiver{},
	} {
		var count int64
		if err := s.db.WithContext(ctx).Model(model).Where("email = ?", email).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *DatabaseStore) CreatePendingRegistration(ctx context.Context, reg *models.PendingRegistration) error {
	err := s.db.WithContext(ctx).Create(reg).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrDuplicateEmail
	}
	return err
}

func (s *DatabaseStore) GetPendingRegistration(ctx context.Context, email string) (*models.PendingRegistration, error) {
	var pending models.PendingRegistration
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&pending).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &pending, nil
}

func (s *DatabaseStore) CreateOtpChallenge(ctx context.Context, challenge *models.OtpChallenge) error {
	challenge.Email = models.NormalizeEmail(challenge.Email)
	return s.db.WithContext(ctx).Create(challenge).Error
}

func (s *DatabaseStore) LatestOtpChallenge(ctx context.Context, email string) (*models.OtpChallenge, error) {
	var challenge models.OtpChallenge
	err := s.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		Order("created_at DESC, id DESC").
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (s *DatabaseStore) PromotePendingRegistration(ctx context.Context, email string) (*models.CandidateAccount, error) {
	email = models.NormalizeEmail(email)
	var candidate *models.CandidateAccount

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending models.PendingRegistration
		// Row lock so two concurrent confirmations cannot both promote.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", email).
			First(&pending).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		candidate = &models.CandidateAccount{
			Email:            pending.Email,
			UserType:         pending.UserType,
			OrganizationName: pending.OrganizationName,
			OrganizationType: pending.OrganizationType,
			Phone:            pending.Phone,
			Address:          pending.Address,
			PasswordHash:     pending.PasswordHash,
			Status:           models.CandidateStatusActive,
		}
		if err := tx.Create(candidate).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&models.PendingRegistration{}, pending.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("email = ?", email).Delete(&models.OtpChallenge{}).Error
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// ===== Approval operations =====

func (s *DatabaseStore) GetCandidates(ctx context.Context) ([]*models.CandidateAccount, error) {
	var candidates []*models.CandidateAccount
	err := s.db.WithContext(ctx).
		Where("status = ?", models.CandidateStatusActive).
		Find(&candidates).Error
	return candidates, err
}

func (s *DatabaseStore) ApproveCandidate(ctx context.Context, id uint, userType string) (*models.CandidateAccount, error) {
	var candidate models.CandidateAccount

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&candidate, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}
		if candidate.Status == models.CandidateStatusBlocked {
			return apperr.ErrCandidateBlocked
		}

		// The roster row keeps the candidate's original creation timestamp.
		switch userType {
		case models.UserTypeDonor:
			donor := &models.Donor{
				Model:            gorm.Model{CreatedAt: candidate.CreatedAt},
				OrganizationName: candidate.OrganizationName,
				OrganizationType: candidate.OrganizationType,
				Phone:            candidate.Phone,
				Address:          candidate.Address,
				Email:            candidate.Email,
				PasswordHash:     candidate.PasswordHash,
			}
			if err := tx.Create(donor).Error; err != nil {
				return err
			}
		case models.UserTypeReceiver:
			receiver := &models.Receiver{
				Model:            gorm.Model{CreatedAt: candidate.CreatedAt},
				OrganizationName: candidate.OrganizationName,
				OrganizationType: candidate.OrganizationType,
				Phone:            candidate.Phone,
				Address:          candidate.Address,
				Email:            candidate.Email,
				PasswordHash:     candidate.PasswordHash,
			}
			if err := tx.Create(receiver).Error; err != nil {
				return err
			}
		default:
			return apperr.ErrValidation
		}

		return tx.Unscoped().Delete(&models.CandidateAccount{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (s *DatabaseStore) BlockCandidate(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.CandidateAccount{}).
		Where("id = ?", id).
		Update("status", models.CandidateStatusBlocked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ===== Roster operations =====

func (s *DatabaseStore) GetDonor(ctx context.Context, id uint) (*models.Donor, error) {
	var donor models.Donor
	if err := s.db.WithContext(ctx).First(&donor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &donor, nil
}

func (s *DatabaseStore) GetDonorByEmail(ctx context.Context, email string) (*models.Donor, error) {
	var donor models.Donor
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&donor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &donor, nil
}

func (s *DatabaseStore) GetReceiverByEmail(ctx context.Context, email string) (*models.Receiver, error) {
	var receiver models.Receiver
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&receiver).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &receiver, nil
}

// ===== Donation operations =====

func (s *DatabaseStore) CreateDonation(ctx context.Context, donation *models.Donation) error {
	return s.db.WithContext(ctx).Create(donation).Error
}

func (s *DatabaseStore) GetDonation(ctx context.Context, id uint) (*models.Donation, error) {
	var donation models.Donation
	if err := s.db.WithContext(ctx).First(&donation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &donation, nil
}

func (s *DatabaseStore) GetPendingDonations(ctx context.Context) ([]*models.DonationListing, error) {
	var listings []*models.DonationListing
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`donations.id AS donation_id, donations.food_category, donations.food_name,
			donations.quantity_text AS quantity, donations.expiry_date, donations.preparation_date,
			donations.storage_instructions, donations.created_at, donations.status,
			donors.organization_name, donors.phone, donors.address, donors.email`).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Where("donations.status = ?", models.DonationStatusPending).
		Order("donations.created_at DESC, donations.id DESC").
		Scan(&listings).Error
	return listings, err
}

func (s *DatabaseStore) AcceptDonation(ctx context.Context, id, receiverID uint, at time.Time) error {
	// Conditional update keyed on the expected prior state: the affected-row
	// count decides the race, no read-then-write window.
	res := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("id = ? AND status = ?", id, models.DonationStatusPending).
		Updates(map[string]interface{}{
			"status":      models.DonationStatusAccepted,
			"accepted_by": receiverID,
			"accepted_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Donation{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.ErrNotFound
		}
		return apperr.ErrAlreadyAccepted
	}
	return nil
}

func (s *DatabaseStore) CompleteDonation(ctx context.Context, id uint, requireAccepted bool) error {
	q := s.db.WithContext(ctx).Model(&models.Donation{}).Where("id = ?", id)
	if requireAccepted {
		q = q.Where("status = ?", models.DonationStatusAccepted)
	}
	res := q.Update("status", models.DonationStatusCompleted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Donation{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.ErrNotFound
		}
		return apperr.ErrNotAccepted
	}
	return nil
}

func (s *DatabaseStore) GetDonationsByDonor(ctx context.Context, donorID uint) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`donations.id AS donation_id, donations.food_name, donations.food_category,
			donations.quantity_text AS quantity, donations.expiry_date, donations.status,
			donations.created_at, donations.accepted_at,
			donors.organization_name AS donor_name,
			COALESCE(receivers.organization_name, '') AS receiver_name`).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Joins("LEFT JOIN receivers ON receivers.id = donations.accepted_by").
		Where("donations.donor_id = ?", donorID).
		Order("donations.created_at DESC, donations.id DESC").
		Scan(&entries).Error
	return entries, err
}

func (s *DatabaseStore) GetAcceptedDonations(ctx context.Context) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`donations.id AS donation_id, donations.food_name, donations.food_category,
			donations.quantity_text AS quantity, donations.expiry_date, donations.status,
			donations.created_at, donations.accepted_at,
			donors.organization_name AS donor_name,
			receivers.organization_name AS receiver_name`).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Joins("JOIN receivers ON receivers.id = donations.accepted_by").
		Where("donations.status = ?", models.DonationStatusAccepted).
		Order("donations.created_at DESC, donations.id DESC").
		Scan(&entries).Error
	return entries, err
}

func (s *DatabaseStore) GetAcceptedDonationsByReceiver(ctx context.Context, receiverID uint) ([]*models.HistoryEntry, error) {
	var entries []*models.HistoryEntry
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`donations.id AS donation_id, donations.food_name, donations.food_category,
			donations.quantity_text AS quantity, donations.expiry_date, donations.status,
			donations.created_at, donations.accepted_at,
			donors.organization_name AS donor_name,
			receivers.organization_name AS receiver_name`).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Joins("JOIN receivers ON receivers.id = donations.accepted_by").
		Where("donations.accepted_by = ? AND donations.status = ?", receiverID, models.DonationStatusAccepted).
		Order("donations.created_at DESC, donations.id DESC").
		Scan(&entries).Error
	return entries, err
}

// ===== Rating operations =====

func (s *DatabaseStore) UpsertRating(ctx context.Context, rating *models.Rating) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "donation_id"}, {Name: "receiver_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "review", "updated_at"}),
	}).Create(rating).Error
}

func (s *DatabaseStore) GetDonorRatings(ctx context.Context, donorID uint) ([]models.RatingView, error) {
	var views []models.RatingView
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select(`ratings.score, ratings.review, ratings.created_at,
			receivers.organization_name AS receiver_name`).
		Joins("JOIN receivers ON receivers.id = ratings.receiver_id").
		Where("ratings.donor_id = ?", donorID).
		Order("ratings.created_at DESC").
		Scan(&views).Error
	return views, err
}

// ===== Analytics operations =====

func (s *DatabaseStore) GetDonationSummary(ctx context.Context) (*models.DonationSummary, error) {
	var summary models.DonationSummary
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`COUNT(*) AS total,
			COUNT(CASE WHEN status = ? THEN 1 END) AS pending,
			COUNT(CASE WHEN status = ? THEN 1 END) AS accepted,
			COUNT(CASE WHEN status = ? THEN 1 END) AS completed`,
			models.DonationStatusPending, models.DonationStatusAccepted, models.DonationStatusCompleted).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *DatabaseStore) GetCategoryBreakdown(ctx context.Context) ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select("food_category, COUNT(id) AS donations_count").
		Where("status <> ?", models.DonationStatusPending).
		Group("food_category").
		Order("donations_count DESC").
		Scan(&counts).Error
	return counts, err
}

func (s *DatabaseStore) GetQuantityOverTime(ctx context.Context) ([]models.QuantityPoint, error) {
	var points []models.QuantityPoint
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`to_char(created_at, 'YYYY-MM-DD') AS date,
			SUM(CASE WHEN quantity_unit = ? THEN quantity_amount ELSE 0 END) AS total_kg,
			SUM(CASE WHEN quantity_unit = ? THEN quantity_amount ELSE 0 END) AS total_plates`,
			string(models.UnitKilograms), string(models.UnitPlates)).
		Where("status <> ?", models.DonationStatusPending).
		Group("to_char(created_at, 'YYYY-MM-DD')").
		Order("date DESC").
		Scan(&points).Error
	return points, err
}

func (s *DatabaseStore) GetStatusComparison(ctx context.Context) ([]models.StatusPoint, error) {
	var points []models.StatusPoint
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`to_char(created_at, 'YYYY-MM-DD') AS date,
			COUNT(CASE WHEN status = ? THEN 1 END) AS pending,
			COUNT(CASE WHEN status = ? THEN 1 END) AS accepted,
			COUNT(CASE WHEN status = ? THEN 1 END) AS completed`,
			models.DonationStatusPending, models.DonationStatusAccepted, models.DonationStatusCompleted).
		Group("to_char(created_at, 'YYYY-MM-DD')").
		Order("date DESC").
		Scan(&points).Error
	return points, err
}

func (s *DatabaseStore) GetTopDonors(ctx context.Context, limit int) ([]models.DonorRanking, error) {
	var rankings []models.DonorRanking
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`donors.organization_name,
			SUM(CASE WHEN donations.quantity_unit = ? THEN donations.quantity_amount ELSE 0 END) AS total_kg,
			SUM(CASE WHEN donations.quantity_unit = ? THEN donations.quantity_amount ELSE 0 END) AS total_plates`,
			string(models.UnitKilograms), string(models.UnitPlates)).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Where("donations.status <> ?", models.DonationStatusPending).
		Group("donors.organization_name").
		Order("SUM(donations.quantity_amount) DESC").
		Limit(limit).
		Scan(&rankings).Error
	return rankings, err
}

func (s *DatabaseStore) GetRecentDonations(ctx context.Context, limit int) ([]models.RecentDonation, error) {
	var recent []models.RecentDonation
	err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`donations.food_name, donors.organization_name AS donor_name, donations.created_at`).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Order("donations.created_at DESC, donations.id DESC").
		Limit(limit).
		Scan(&recent).Error
	return recent, err
}

func (s *DatabaseStore) GetRangeReport(ctx context.Context, req models.ReportRequest) ([]models.ReportRow, error) {
	q := s.db.WithContext(ctx).Model(&models.Donation{}).
		Select(`donations.food_name, donations.food_category,
			donors.organization_name AS donor_name,
			COALESCE(receivers.organization_name, '') AS receiver_name,
			SUM(CASE WHEN donations.quantity_unit = ? THEN donations.quantity_amount ELSE 0 END) AS total_kg,
			SUM(CASE WHEN donations.quantity_unit = ? THEN donations.quantity_amount ELSE 0 END) AS total_plates,
			COUNT(donations.id) AS donations`,
			string(models.UnitKilograms), string(models.UnitPlates)).
		Joins("JOIN donors ON donors.id = donations.donor_id").
		Joins("LEFT JOIN receivers ON receivers.id = donations.accepted_by").
		Where("donations.created_at >= ? AND donations.created_at < ?", req.From, req.To)
	if req.Category != "" {
		q = q.Where("donations.food_category = ?", req.Category)
	}
	var rows []models.ReportRow
	err := q.Group("donations.food_name, donations.food_category, donors.organization_name, receivers.organization_name").
		Order("donor_name, food_name").
		Scan(&rows).Error
	return rows, err
}

// ===== Contact and feedback operations =====

func (s *DatabaseStore) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *DatabaseStore) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	return s.db.WithContext(ctx).Create(fb).Error
}

func (s *DatabaseStore) GetFeedback(ctx context.Context) ([]*models.Feedback, error) {
	var entries []*models.Feedback
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}

// ===== Maintenance operations =====

func (s *DatabaseStore) DeleteExpiredOtpChallenges(ctx context.Context, olderThan time.Duration) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("created_at < ?", time.Now().Add(-olderThan)).
		Delete(&models.OtpChallenge{})
	return res.RowsAffected, res.Error
}

func (s *DatabaseStore) DeleteAbandonedRegistrations(ctx context.Context, olderThan time.Duration) (int64, error) {
	res := s.db.WithContext(ctx).Unscoped().
		Where("created_at < ?", time.Now().Add(-olderThan)).
		Delete(&models.PendingRegistration{})
	return res.RowsAffected, res.Error
}
