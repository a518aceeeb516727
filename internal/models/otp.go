package models

import (
	"time"

	"gorm.io/gorm"
)

// OtpValidity is the window within which a challenge can be confirmed.
const OtpValidity = 5 * time.Minute

// OtpChallenge is a short-lived code mailed to a pending registration.
// Multiple challenges per email may exist; only the most recent one is
// honored during confirmation.
type OtpChallenge struct {
	gorm.Model
	Email string `gorm:"index;not null"`
	Code  string `gorm:"not null"` // 6 digits, left-zero-padded
}

// Expired reports whether the challenge is past its validity window.
func (o *OtpChallenge) Expired(now time.Time) bool {
	return now.Sub(o.CreatedAt) > OtpValidity
}
