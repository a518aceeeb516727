package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mealbridge/mealbridge-backend/internal/apperr"
	"github.com/mealbridge/mealbridge-backend/internal/models"
)

// MemoryStore holds all data in memory behind a single mutex. Multi-table
// steps (promotion, approval) run under one lock acquisition, which gives
// the same atomicity the database store gets from transactions. Used for
// tests and for USE_MEMORY_STORE runs; not for production.
type MemoryStore struct {
	mu sync.RWMutex

	pending    map[string]*models.PendingRegistration // keyed by email
	challenges []*models.OtpChallenge
	candidates map[uint]*models.CandidateAccount
	donors     map[uint]*models.Donor
	receivers  map[uint]*models.Receiver
	donations  map[uint]*models.Donation
	ratings    map[[2]uint]*models.Rating // keyed by (donation id, receiver id)
	contacts   []*models.ContactMessage
	feedback   []*models.Feedback

	pendingSeq   uint
	challengeSeq uint
	candidateSeq uint
	donorSeq     uint
	receiverSeq  uint
	donationSeq  uint
	ratingSeq    uint
	contactSeq   uint
	feedbackSeq  uint
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pending:    make(map[string]*models.PendingRegistration),
		candidates: make(map[uint]*models.CandidateAccount),
		donors:     make(map[uint]*models.Donor),
		receivers:  make(map[uint]*models.Receiver),
		donations:  make(map[uint]*models.Donation),
		ratings:    make(map[[2]uint]*models.Rating),
	}
}

// ===== Registration operations =====

func (m *MemoryStore) EmailInUse(ctx context.Context, email string) (bool, error) {
	email = models.NormalizeEmail(email)
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.pending[email]; ok {
		return true, nil
	}
	for _, c := range m.candidates {
		if c.Email == email {
			return true, nil
		}
	}
	for _, d := range m.donors {
		if d.Email == email {
			return true, nil
		}
	}
	for _, r := range m.receivers {
		if r.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreatePendingRegistration(ctx context.Context, reg *models.PendingRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg.Email = models.NormalizeEmail(reg.Email)
	if _, ok := m.pending[reg.Email]; ok {
		return apperr.ErrDuplicateEmail
	}
	m.pendingSeq++
	reg.ID = m.pendingSeq
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	m.pending[reg.Email] = reg
	return nil
}

func (m *MemoryStore) GetPendingRegistration(ctx context.Context, email string) (*models.PendingRegistration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pending, ok := m.pending[models.NormalizeEmail(email)]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return pending, nil
}

func (m *MemoryStore) CreateOtpChallenge(ctx context.Context, challenge *models.OtpChallenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	challenge.Email = models.NormalizeEmail(challenge.Email)
	m.challengeSeq++
	challenge.ID = m.challengeSeq
	if challenge.CreatedAt.IsZero() {
		challenge.CreatedAt = time.Now()
	}
	m.challenges = append(m.challenges, challenge)
	return nil
}

func (m *MemoryStore) LatestOtpChallenge(ctx context.Context, email string) (*models.OtpChallenge, error) {
	email = models.NormalizeEmail(email)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *models.OtpChallenge
	for _, c := range m.challenges {
		if c.Email != email {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) ||
			(c.CreatedAt.Equal(latest.CreatedAt) && c.ID > latest.ID) {
			latest = c
		}
	}
	if latest == nil {
		return nil, apperr.ErrNotFound
	}
	return latest, nil
}

func (m *MemoryStore) PromotePendingRegistration(ctx context.Context, email string) (*models.CandidateAccount, error) {
	email = models.NormalizeEmail(email)
	m.mu.Lock()
	defer m.mu.Unlock()

	pending, ok := m.pending[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	m.candidateSeq++
	candidate := &models.CandidateAccount{
		Model:            gorm.Model{ID: m.candidateSeq, CreatedAt: time.Now()},
		Email:            pending.Email,
		UserType:         pending.UserType,
		OrganizationName: pending.OrganizationName,
		OrganizationType: pending.OrganizationType,
		Phone:            pending.Phone,
		Address:          pending.Address,
		PasswordHash:     pending.PasswordHash,
		Status:           models.CandidateStatusActive,
	}
	m.candidates[candidate.ID] = candidate

	delete(m.pending, email)
	m.deleteChallengesLocked(email)
	return candidate, nil
}

func (m *MemoryStore) deleteChallengesLocked(email string) {
	kept := m.challenges[:0]
	for _, c := range m.challenges {
		if c.Email != email {
			kept = append(kept, c)
		}
	}
	m.challenges = kept
}

// ===== Approval operations =====

func (m *MemoryStore) GetCandidates(ctx context.Context) ([]*models.CandidateAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []*models.CandidateAccount
	for _, c := range m.candidates {
		if c.Status == models.CandidateStatusActive {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates, nil
}

func (m *MemoryStore) ApproveCandidate(ctx context.Context, id uint, userType string) (*models.CandidateAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidate, ok := m.candidates[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	if candidate.Status == models.CandidateStatusBlocked {
		return nil, apperr.ErrCandidateBlocked
	}

	switch userType {
	case models.UserTypeDonor:
		m.donorSeq++
		m.donors[m.donorSeq] = &models.Donor{
			Model:            gorm.Model{ID: m.donorSeq, CreatedAt: candidate.CreatedAt},
			OrganizationName: candidate.OrganizationName,
			OrganizationType: candidate.OrganizationType,
			Phone:            candidate.Phone,
			Address:          candidate.Address,
			Email:            candidate.Email,
			PasswordHash:     candidate.PasswordHash,
		}
	case models.UserTypeReceiver:
		m.receiverSeq++
		m.receivers[m.receiverSeq] = &models.Receiver{
			Model:            gorm.Model{ID: m.receiverSeq, CreatedAt: candidate.CreatedAt},
			OrganizationName: candidate.OrganizationName,
			OrganizationType: candidate.OrganizationType,
			Phone:            candidate.Phone,
			Address:          candidate.Address,
			Email:            candidate.Email,
			PasswordHash:     candidate.PasswordHash,
		}
	default:
		return nil, apperr.ErrValidation
	}

	delete(m.candidates, id)
	return candidate, nil
}

func (m *MemoryStore) BlockCandidate(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidate, ok := m.candidates[id]
	if !ok {
		return apperr.ErrNotFound
	}
	candidate.Status = models.CandidateStatusBlocked
	return nil
}

// ===== Roster operations =====

func (m *MemoryStore) GetDonor(ctx context.Context, id uint) (*models.Donor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	donor, ok := m.donors[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return donor, nil
}

func (m *MemoryStore) GetDonorByEmail(ctx context.Context, email string) (*models.Donor, error) {
	email = models.NormalizeEmail(email)
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.donors {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *MemoryStore) GetReceiverByEmail(ctx context.Context, email string) (*models.Receiver, error) {
	email = models.NormalizeEmail(email)
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.receivers {
		if r.Email == email {
			return r, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// ===== Donation operations =====

func (m *MemoryStore) CreateDonation(ctx context.Context, donation *models.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.donationSeq++
	donation.ID = m.donationSeq
	if donation.Status == "" {
		donation.Status = models.DonationStatusPending
	}
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = time.Now()
	}
	m.donations[donation.ID] = donation
	return nil
}

func (m *MemoryStore) GetDonation(ctx context.Context, id uint) (*models.Donation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	donation, ok := m.donations[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	clone := *donation
	return &clone, nil
}

func (m *MemoryStore) GetPendingDonations(ctx context.Context) ([]*models.DonationListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var listings []*models.DonationListing
	for _, d := range m.sortedDonationsLocked() {
		if d.Status != models.DonationStatusPending {
			continue
		}
		donor := m.donors[d.DonorID]
		if donor == nil {
			continue
		}
		listings = append(listings, &models.DonationListing{
			DonationID:          d.ID,
			FoodCategory:        d.FoodCategory,
			FoodName:            d.FoodName,
			Quantity:            d.QuantityText,
			ExpiryDate:          d.ExpiryDate,
			PreparationDate:     d.PreparationDate,
			StorageInstructions: d.StorageInstructions,
			CreatedAt:           d.CreatedAt,
			Status:              d.Status,
			OrganizationName:    donor.OrganizationName,
			Phone:               donor.Phone,
			Address:             donor.Address,
			Email:               donor.Email,
		})
	}
	return listings, nil
}

// sortedDonationsLocked returns donations newest-first, insertion order as
// the tie-break. Callers must hold the lock.
func (m *MemoryStore) sortedDonationsLocked() []*models.Donation {
	donations := make([]*models.Donation, 0, len(m.donations))
	for _, d := range m.donations {
		donations = append(donations, d)
	}
	sort.Slice(donations, func(i, j int) bool {
		if !donations[i].CreatedAt.Equal(donations[j].CreatedAt) {
			return donations[i].CreatedAt.After(donations[j].CreatedAt)
		}
		return donations[i].ID > donations[j].ID
	})
	return donations
}

func (m *MemoryStore) AcceptDonation(ctx context.Context, id, receiverID uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if donation.Status != models.DonationStatusPending {
		return apperr.ErrAlreadyAccepted
	}
	donation.Status = models.DonationStatusAccepted
	donation.AcceptedBy = &receiverID
	donation.AcceptedAt = &at
	return nil
}

func (m *MemoryStore) CompleteDonation(ctx context.Context, id uint, requireAccepted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	donation, ok := m.donations[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if requireAccepted && donation.Status != models.DonationStatusAccepted {
		return apperr.ErrNotAccepted
	}
	donation.Status = models.DonationStatusCompleted
	return nil
}

func (m *MemoryStore) GetDonationsByDonor(ctx context.Context, donorID uint) ([]*models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	donor, ok := m.donors[donorID]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	var entries []*models.HistoryEntry
	for _, d := range m.sortedDonationsLocked() {
		if d.DonorID != donorID {
			continue
		}
		entries = append(entries, m.historyEntryLocked(d, donor))
	}
	return entries, nil
}

func (m *MemoryStore) GetAcceptedDonations(ctx context.Context) ([]*models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*models.HistoryEntry
	for _, d := range m.sortedDonationsLocked() {
		if d.Status != models.DonationStatusAccepted {
			continue
		}
		donor := m.donors[d.DonorID]
		if donor == nil {
			continue
		}
		entries = append(entries, m.historyEntryLocked(d, donor))
	}
	return entries, nil
}

func (m *MemoryStore) GetAcceptedDonationsByReceiver(ctx context.Context, receiverID uint) ([]*models.HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*models.HistoryEntry
	for _, d := range m.sortedDonationsLocked() {
		if d.Status != models.DonationStatusAccepted || d.AcceptedBy == nil || *d.AcceptedBy != receiverID {
			continue
		}
		donor := m.donors[d.DonorID]
		if donor == nil {
			continue
		}
		entries = append(entries, m.historyEntryLocked(d, donor))
	}
	return entries, nil
}

func (m *MemoryStore) historyEntryLocked(d *models.Donation, donor *models.Donor) *models.HistoryEntry {
	entry := &models.HistoryEntry{
		DonationID:   d.ID,
		FoodName:     d.FoodName,
		FoodCategory: d.FoodCategory,
		Quantity:     d.QuantityText,
		ExpiryDate:   d.ExpiryDate,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		AcceptedAt:   d.AcceptedAt,
		DonorName:    donor.OrganizationName,
	}
	if d.AcceptedBy != nil {
		if receiver := m.receivers[*d.AcceptedBy]; receiver != nil {
			entry.ReceiverName = receiver.OrganizationName
		}
	}
	return entry
}

// ===== Rating operations =====

func (m *MemoryStore) UpsertRating(ctx context.Context, rating *models.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := [2]uint{rating.DonationID, rating.ReceiverID}
	if existing, ok := m.ratings[key]; ok {
		existing.Score = rating.Score
		existing.Review = rating.Review
		existing.UpdatedAt = time.Now()
		return nil
	}
	m.ratingSeq++
	rating.ID = m.ratingSeq
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	m.ratings[key] = rating
	return nil
}

func (m *MemoryStore) GetDonorRatings(ctx context.Context, donorID uint) ([]models.RatingView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var views []models.RatingView
	for _, r := range m.ratings {
		if r.DonorID != donorID {
			continue
		}
		view := models.RatingView{Score: r.Score, Review: r.Review, CreatedAt: r.CreatedAt}
		if receiver := m.receivers[r.ReceiverID]; receiver != nil {
			view.ReceiverName = receiver.OrganizationName
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views, nil
}

// ===== Analytics operations =====

func (m *MemoryStore) GetDonationSummary(ctx context.Context) (*models.DonationSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := &models.DonationSummary{}
	for _, d := range m.donations {
		summary.Total++
		switch d.Status {
		case models.DonationStatusPending:
			summary.Pending++
		case models.DonationStatusAccepted:
			summary.Accepted++
		case models.DonationStatusCompleted:
			summary.Completed++
		}
	}
	return summary, nil
}

func (m *MemoryStore) GetCategoryBreakdown(ctx context.Context) ([]models.CategoryCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byCategory := make(map[string]int64)
	for _, d := range m.donations {
		if d.Status == models.DonationStatusPending {
			continue
		}
		byCategory[d.FoodCategory]++
	}
	counts := make([]models.CategoryCount, 0, len(byCategory))
	for category, n := range byCategory {
		counts = append(counts, models.CategoryCount{FoodCategory: category, DonationsCount: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].DonationsCount != counts[j].DonationsCount {
			return counts[i].DonationsCount > counts[j].DonationsCount
		}
		return counts[i].FoodCategory < counts[j].FoodCategory
	})
	return counts, nil
}

func (m *MemoryStore) GetQuantityOverTime(ctx context.Context) ([]models.QuantityPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byDate := make(map[string]*models.QuantityPoint)
	for _, d := range m.donations {
		if d.Status == models.DonationStatusPending {
			continue
		}
		date := d.CreatedAt.Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = &models.QuantityPoint{Date: date}
			byDate[date] = point
		}
		switch models.QuantityUnit(d.QuantityUnit) {
		case models.UnitKilograms:
			point.TotalKg += d.QuantityAmount
		case models.UnitPlates:
			point.TotalPlates += d.QuantityAmount
		}
	}
	points := make([]models.QuantityPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date > points[j].Date })
	return points, nil
}

func (m *MemoryStore) GetStatusComparison(ctx context.Context) ([]models.StatusPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byDate := make(map[string]*models.StatusPoint)
	for _, d := range m.donations {
		date := d.CreatedAt.Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = &models.StatusPoint{Date: date}
			byDate[date] = point
		}
		switch d.Status {
		case models.DonationStatusPending:
			point.Pending++
		case models.DonationStatusAccepted:
			point.Accepted++
		case models.DonationStatusCompleted:
			point.Completed++
		}
	}
	points := make([]models.StatusPoint, 0, len(byDate))
	for _, p := range byDate {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date > points[j].Date })
	return points, nil
}

func (m *MemoryStore) GetTopDonors(ctx context.Context, limit int) ([]models.DonorRanking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byDonor := make(map[string]*models.DonorRanking)
	for _, d := range m.donations {
		if d.Status == models.DonationStatusPending {
			continue
		}
		donor := m.donors[d.DonorID]
		if donor == nil {
			continue
		}
		ranking, ok := byDonor[donor.OrganizationName]
		if !ok {
			ranking = &models.DonorRanking{OrganizationName: donor.OrganizationName}
			byDonor[donor.OrganizationName] = ranking
		}
		switch models.QuantityUnit(d.QuantityUnit) {
		case models.UnitKilograms:
			ranking.TotalKg += d.QuantityAmount
		case models.UnitPlates:
			ranking.TotalPlates += d.QuantityAmount
		}
	}
	rankings := make([]models.DonorRanking, 0, len(byDonor))
	for _, r := range byDonor {
		rankings = append(rankings, *r)
	}
	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].TotalKg+rankings[i].TotalPlates > rankings[j].TotalKg+rankings[j].TotalPlates
	})
	if limit > 0 && len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings, nil
}

func (m *MemoryStore) GetRecentDonations(ctx context.Context, limit int) ([]models.RecentDonation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var recent []models.RecentDonation
	for _, d := range m.sortedDonationsLocked() {
		donor := m.donors[d.DonorID]
		if donor == nil {
			continue
		}
		recent = append(recent, models.RecentDonation{
			FoodName:  d.FoodName,
			DonorName: donor.OrganizationName,
			CreatedAt: d.CreatedAt,
		})
		if limit > 0 && len(recent) == limit {
			break
		}
	}
	return recent, nil
}

func (m *MemoryStore) GetRangeReport(ctx context.Context, req models.ReportRequest) ([]models.ReportRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type key struct{ food, category, donor, receiver string }
	byKey := make(map[key]*models.ReportRow)

	for _, d := range m.donations {
		if d.CreatedAt.Before(req.From) || !d.CreatedAt.Before(req.To) {
			continue
		}
		if req.Category != "" && d.FoodCategory != req.Category {
			continue
		}
		donor := m.donors[d.DonorID]
		if donor == nil {
			continue
		}
		receiverName := ""
		if d.AcceptedBy != nil {
			if receiver := m.receivers[*d.AcceptedBy]; receiver != nil {
				receiverName = receiver.OrganizationName
			}
		}

		k := key{d.FoodName, d.FoodCategory, donor.OrganizationName, receiverName}
		row, ok := byKey[k]
		if !ok {
			row = &models.ReportRow{
				FoodName:     d.FoodName,
				FoodCategory: d.FoodCategory,
				DonorName:    donor.OrganizationName,
				ReceiverName: receiverName,
			}
			byKey[k] = row
		}
		switch models.QuantityUnit(d.QuantityUnit) {
		case models.UnitKilograms:
			row.TotalKg += d.QuantityAmount
		case models.UnitPlates:
			row.TotalPlates += d.QuantityAmount
		}
		row.Donations++
	}

	rows := make([]models.ReportRow, 0, len(byKey))
	for _, r := range byKey {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DonorName != rows[j].DonorName {
			return strings.ToLower(rows[i].DonorName) < strings.ToLower(rows[j].DonorName)
		}
		return strings.ToLower(rows[i].FoodName) < strings.ToLower(rows[j].FoodName)
	})
	return rows, nil
}

// ===== Contact and feedback operations =====

func (m *MemoryStore) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contactSeq++
	msg.ID = m.contactSeq
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	// gorm hooks do not fire here, so mint the reference ourselves.
	if msg.Reference == "" {
		if err := msg.BeforeCreate(nil); err != nil {
			return err
		}
	}
	m.contacts = append(m.contacts, msg)
	return nil
}

func (m *MemoryStore) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.feedbackSeq++
	fb.ID = m.feedbackSeq
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	m.feedback = append(m.feedback, fb)
	return nil
}

func (m *MemoryStore) GetFeedback(ctx context.Context) ([]*models.Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*models.Feedback, len(m.feedback))
	copy(entries, m.feedback)
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

// ===== Maintenance operations =====

func (m *MemoryStore) DeleteExpiredOtpChallenges(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var removed int64
	kept := m.challenges[:0]
	for _, c := range m.challenges {
		if c.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	m.challenges = kept
	return removed, nil
}

func (m *MemoryStore) DeleteAbandonedRegistrations(ctx context.Context, olderThan time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)
	var removed int64
	for email, pending := range m.pending {
		if pending.CreatedAt.Before(cutoff) {
			delete(m.pending, email)
			removed++
		}
	}
	return removed, nil
}
