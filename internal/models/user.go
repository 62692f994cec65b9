package models

import (
	"time"
)

// User is an account identified by its normalized email address.
// Password holds the bcrypt hash, never the raw credential.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"uniqueIndex;size:255;not null"`
	Name        string `gorm:"size:255"`
	Password    string `gorm:"not null"`
	IsActive    bool   `gorm:"not null;default:true"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u User) String() string {
	return u.Email
}
