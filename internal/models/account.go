package models

import (
	"strings"

	"gorm.io/gorm"
)

// User type values carried through registration and approval.
const (
	UserTypeDonor    = "Donor"
	UserTypeReceiver = "Receiver"
)

// Roles resolved at login and propagated via the auth middleware.
const (
	RoleDonor    = "donor"
	RoleReceiver = "receiver"
)

// Donor is a fully approved organization that publishes food donations.
// Rows are created only by the approval workflow.
type Donor struct {
	gorm.Model
	OrganizationName string `json:"organization_name" gorm:"not null"`
	OrganizationType string `json:"organization_type"` // e.g. "Hotel", "Restaurant", "Mess"
	Phone            string `json:"phone" gorm:"uniqueIndex;not null"`
	Address          string `json:"address"`
	Email            string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string `json:"-" gorm:"not null"`
}

// Receiver is a fully approved organization that claims donations.
type Receiver struct {
	gorm.Model
	OrganizationName string `json:"organization_name" gorm:"not null"`
	OrganizationType string `json:"organization_type"` // e.g. "NGO", "Individual"
	Phone            string `json:"phone" gorm:"uniqueIndex;not null"`
	Address          string `json:"address"`
	Email            string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash     string `json:"-" gorm:"not null"`
}

// BeforeCreate normalizes the email so lookups are case-insensitive.
func (d *Donor) BeforeCreate(tx *gorm.DB) error {
	d.Email = NormalizeEmail(d.Email)
	return nil
}

func (r *Receiver) BeforeCreate(tx *gorm.DB) error {
	r.Email = NormalizeEmail(r.Email)
	return nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidUserType reports whether t is an accepted role intent.
func ValidUserType(t string) bool {
	return t == UserTypeDonor || t == UserTypeReceiver
}
