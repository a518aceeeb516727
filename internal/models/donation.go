package models

import (
	"time"

	"gorm.io/gorm"
)

// Donation status values. Transitions are forward-only:
// Pending -> Accepted -> Completed.
const (
	DonationStatusPending   = "Pending"
	DonationStatusAccepted  = "Accepted"
	DonationStatusCompleted = "Completed"
)

// Donation is a single food-surplus offer owned by the donor that created
// it and claimed by at most one receiver. Rows are never deleted.
type Donation struct {
	gorm.Model
	DonorID uint `json:"donor_id" gorm:"index;not null"`

	// Food details
	FoodCategory        string     `json:"food_category"`
	FoodName            string     `json:"food_name" gorm:"not null"`
	QuantityText        string     `json:"quantity" gorm:"not null"` // original free-form text, display only
	QuantityAmount      float64    `json:"quantity_amount" gorm:"not null"`
	QuantityUnit        string     `json:"quantity_unit" gorm:"not null"` // "kg" or "plates"
	ExpiryDate          *time.Time `json:"expiry_date"`
	PreparationDate     *time.Time `json:"preparation_date"`
	StorageInstructions string     `json:"storage_instructions"`

	// Lifecycle
	Status     string     `json:"status" gorm:"default:'Pending';index"`
	AcceptedBy *uint      `json:"accepted_by" gorm:"index"` // Receiver id, set iff Accepted or Completed
	AcceptedAt *time.Time `json:"accepted_at"`
}

// ParsedQuantity returns the tagged quantity stored at creation time.
func (d *Donation) ParsedQuantity() Quantity {
	return Quantity{Amount: d.QuantityAmount, Unit: QuantityUnit(d.QuantityUnit)}
}

// DonationRequest is the create-donation payload.
type DonationRequest struct {
	Email               string `json:"email"` // ignored when an authenticated identity is present
	FoodCategory        string `json:"food_category"`
	FoodName            string `json:"food_name"`
	Quantity            string `json:"quantity"`
	ExpiryDate          string `json:"expiry_date"`          // "2006-01-02"
	PreparationDate     string `json:"preparation_date"`     // "2006-01-02"
	StorageInstructions string `json:"storage_instructions"` //
}

// DonationListing is a pending donation joined with donor contact info for
// the receiver-facing feed.
type DonationListing struct {
	DonationID          uint       `json:"donation_id"`
	FoodCategory        string     `json:"food_category"`
	FoodName            string     `json:"food_name"`
	Quantity            string     `json:"quantity"`
	ExpiryDate          *time.Time `json:"expiry_date"`
	PreparationDate     *time.Time `json:"preparation_date"`
	StorageInstructions string     `json:"storage_instructions"`
	CreatedAt           time.Time  `json:"created_at"`
	Status              string     `json:"status"`
	OrganizationName    string     `json:"organization_name"`
	Phone               string     `json:"phone"`
	Address             string     `json:"address"`
	Email               string     `json:"email"`
}

// HistoryEntry is a donation row in a donor's or receiver's history view.
type HistoryEntry struct {
	DonationID   uint       `json:"donation_id"`
	FoodName     string     `json:"food_name"`
	FoodCategory string     `json:"food_category"`
	Quantity     string     `json:"quantity"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	DonorName    string     `json:"donor_name"`
	ReceiverName string     `json:"receiver_name,omitempty"`
}
