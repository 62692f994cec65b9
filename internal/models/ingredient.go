package models

import (
	"time"
)

// Ingredient is an owner-scoped ingredient referenced by recipes.
type Ingredient struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	UserID    uint   `gorm:"not null;index"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i Ingredient) String() string {
	return i.Name
}

func (i *Ingredient) GetID() uint { return i.ID }
func (i *Ingredient) GetName() string { return i.Name }
func (i *Ingredient) SetName(n string) { i.Name = n }
func (i *Ingredient) SetOwner(id uint) { i.UserID = id }
func (i *Ingredient) GetOwner() uint { return i.UserID }
