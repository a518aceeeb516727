package models

import (
	"time"

	"gorm.io/gorm"
)

// Rating is a receiver's score for a donation it accepted. One rating per
// (donation, receiver); re-submitting overwrites the previous score.
type Rating struct {
	gorm.Model
	DonationID uint   `json:"donation_id" gorm:"uniqueIndex:idx_donation_receiver;not null"`
	ReceiverID uint   `json:"receiver_id" gorm:"uniqueIndex:idx_donation_receiver;not null"`
	DonorID    uint   `json:"donor_id" gorm:"index;not null"`
	Score      int    `json:"rating" gorm:"not null"`
	Review     string `json:"review"`
}

// RatingRequest is the rate-donation payload.
type RatingRequest struct {
	DonationID uint   `json:"donation_id"`
	Email      string `json:"email"`
	Rating     int    `json:"rating"`
	Review     string `json:"review"`
}

// RatingView is a rating joined with the receiver's name for profile pages.
type RatingView struct {
	Score        int       `json:"rating"`
	Review       string    `json:"review"`
	CreatedAt    time.Time `json:"created_at"`
	ReceiverName string    `json:"receiver_name"`
}

// DonorProfile is the public view of a donor with its received ratings.
type DonorProfile struct {
	ID               uint         `json:"id"`
	OrganizationName string       `json:"organization_name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	Address          string       `json:"address"`
	Ratings          []RatingView `json:"ratings"`
}
