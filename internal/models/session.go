package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is the server side state of a login. It is created when a
// user logs in and deleted when they log out, so presented tokens can
// actually be revoked.
type Session struct {
	DefaultModel
	UserID    uuid.UUID `json:"userId"`
	User      User      `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var ErrSessionExpired = errors.New("the session has expired, please log in again")

// BeforeCreate verifies that the user the session belongs to exists.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	return tx.First(&User{}, s.UserID).Error
}

// Expired reports whether the session has passed its expiry time.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
