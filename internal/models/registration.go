package models

import "gorm.io/gorm"

// Candidate status values. Blocking is a soft flag so a rejection leaves an
// auditable row instead of silently deleting the candidate.
const (
	CandidateStatusActive  = "active"
	CandidateStatusBlocked = "blocked"
)

// PendingRegistration holds a submitted registration until the email is
// proven via OTP. At most one active row per email.
type PendingRegistration struct {
	gorm.Model
	Email            string `json:"email" gorm:"uniqueIndex;not null"`
	UserType         string `json:"user_type" gorm:"not null"` // "Donor" or "Receiver"
	OrganizationName string `json:"organization_name" gorm:"not null"`
	OrganizationType string `json:"organization_type" gorm:"not null"`
	Phone            string `json:"phone" gorm:"not null"`
	Address          string `json:"address" gorm:"not null"`
	PasswordHash     string `json:"-" gorm:"not null"`
}

func (p *PendingRegistration) BeforeCreate(tx *gorm.DB) error {
	p.Email = NormalizeEmail(p.Email)
	return nil
}

// CandidateAccount is an OTP-verified registration awaiting administrative
// approval into the Donor or Receiver roster.
type CandidateAccount struct {
	gorm.Model
	Email            string `json:"email" gorm:"uniqueIndex;not null"`
	UserType         string `json:"user_type" gorm:"not null"`
	OrganizationName string `json:"organization_name" gorm:"not null"`
	OrganizationType string `json:"organization_type" gorm:"not null"`
	Phone            string `json:"phone" gorm:"uniqueIndex;not null"`
	Address          string `json:"address" gorm:"not null"`
	PasswordHash     string `json:"-" gorm:"not null"`
	Status           string `json:"status" gorm:"default:'active';index"`
}

// RegistrationRequest is the submit-registration payload.
type RegistrationRequest struct {
	UserType         string `json:"user_type"`
	OrganizationName string `json:"organization_name"`
	OrganizationType string `json:"organization_type"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// Incomplete reports whether any required field is blank.
func (r *RegistrationRequest) Incomplete() bool {
	return r.UserType == "" || r.OrganizationName == "" || r.OrganizationType == "" ||
		r.Phone == "" || r.Address == "" || r.Email == "" || r.Password == ""
}
