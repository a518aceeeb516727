package models

import "time"

// Read-side projection rows produced by the analytics aggregator. All of
// these are derived from donation history; none are persisted.

// DonationSummary is the overall pending/accepted/completed tally.
type DonationSummary struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Completed int64 `json:"completed"`
}

// CategoryCount is the number of claimed (non-Pending) donations per category.
type CategoryCount struct {
	FoodCategory   string `json:"food_category"`
	DonationsCount int64  `json:"donations_count"`
}

// QuantityPoint is a per-day quantity sum, bucketed by unit. Kilograms and
// plate counts are incompatible magnitudes and are never added together.
type QuantityPoint struct {
	Date        string  `json:"date"` // "2006-01-02"
	TotalKg     float64 `json:"total_kg"`
	TotalPlates float64 `json:"total_plates"`
}

// StatusPoint is a per-day count of donations in each lifecycle state.
type StatusPoint struct {
	Date      string `json:"date"`
	Pending   int64  `json:"pending"`
	Accepted  int64  `json:"accepted"`
	Completed int64  `json:"completed"`
}

// DonorRanking is a leaderboard entry. Rank combines both unit buckets;
// the per-unit sums stay visible so the combination is inspectable.
type DonorRanking struct {
	OrganizationName string  `json:"organization_name"`
	TotalKg          float64 `json:"total_kg"`
	TotalPlates      float64 `json:"total_plates"`
}

// RecentDonation is a latest-donations feed entry.
type RecentDonation struct {
	FoodName  string    `json:"food_name"`
	DonorName string    `json:"donor_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportRow is one line of the custom range report: sums for a
// (food, donor, receiver) combination inside the requested window.
type ReportRow struct {
	FoodName     string  `json:"food_name"`
	FoodCategory string  `json:"food_category"`
	DonorName    string  `json:"donor_name"`
	ReceiverName string  `json:"receiver_name"`
	TotalKg      float64 `json:"total_kg"`
	TotalPlates  float64 `json:"total_plates"`
	Donations    int64   `json:"donations"`
}

// ReportRequest bounds the custom report. Category is optional.
type ReportRequest struct {
	From     time.Time
	To       time.Time
	Category string
}
