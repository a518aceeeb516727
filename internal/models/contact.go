package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is a contact-form submission. A copy is mailed to the
// admin inbox after the row is stored.
type ContactMessage struct {
	gorm.Model
	Reference string `json:"reference" gorm:"uniqueIndex;not null"`
	Name      string `json:"name" gorm:"not null"`
	Email     string `json:"email" gorm:"not null"`
	Message   string `json:"message" gorm:"not null"`
}

func (c *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if c.Reference == "" {
		c.Reference = fmt.Sprintf("CM-%s", uuid.NewString()[:8])
	}
	return nil
}

// Feedback is a free-form site feedback entry.
type Feedback struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	Feedback string `json:"feedback" gorm:"not null"`
}
