package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the credential-store record. Email is stored lowercased; the
// unique index is the source of truth for duplicate registration, not an
// application-level check-then-insert.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Email         string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash  string    `gorm:"not null"                 json:"-"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	IsAdmin       bool      `gorm:"default:false"            json:"is_admin"`
	IsPremium     bool      `gorm:"default:false"            json:"is_premium"`
	EmailVerified bool      `gorm:"default:false"            json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Public returns a copy safe to hand to clients: same fields, hash elided
// by the json tag, but callers that re-marshal through other shapes should
// still use this rather than the raw record.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
