package models

import (
	"time"
)

// AuthToken is the single active API token of a user.
type AuthToken struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"uniqueIndex;not null"`
	User        *User     `gorm:"constraint:OnDelete:CASCADE;"`
	ClientID    string    `gorm:"size:64;not null"`
	AccessToken string    `gorm:"uniqueIndex;size:512;not null"`
	IssuedAt    time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}

// Expired reports whether the token is no longer valid at t
func (a AuthToken) Expired(t time.Time) bool {
	return !a.ExpiresAt.After(t)
}
