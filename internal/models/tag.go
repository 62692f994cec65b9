package models

import (
	"time"
)

// Tag labels recipes of a single owner. Names are not unique per owner.
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	UserID    uint   `gorm:"not null;index"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Tag) String() string {
	return t.Name
}

func (t *Tag) GetID() uint { return t.ID }
func (t *Tag) GetName() string { return t.Name }
func (t *Tag) SetName(n string) { t.Name = n }
func (t *Tag) SetOwner(id uint) { t.UserID = id }
func (t *Tag) GetOwner() uint { return t.UserID }
