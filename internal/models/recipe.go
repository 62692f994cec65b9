package models

import (
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecipeImageDir is the storage prefix for uploaded recipe images
const RecipeImageDir = "uploads/recipe"

// newImageID generates the unique part of an image key
var newImageID = func() string {
	return uuid.New().String()
}

// SetImageIDGenerator replaces the image id generator and returns a function restoring the previous one
func SetImageIDGenerator(gen func() string) (restore func()) {
	prev := newImageID
	newImageID = gen
	return func() { newImageID = prev }
}

// Recipe belongs to one owner and references tags and ingredients through
// the recipe_tags and recipe_ingredients join tables.
type Recipe struct {
	ID          uint         `gorm:"primaryKey"`
	UserID      uint         `gorm:"not null;index"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE;"`
	Title       string       `gorm:"size:255;not null"`
	TimeMinutes int          `gorm:"not null"`
	Price       float64      `gorm:"type:decimal(5,2);not null"`
	Link        string       `gorm:"size:255"`
	Image       string       `gorm:"size:255"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE;"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Recipe) String() string {
	return r.Title
}

// TagIDs returns the ids of the loaded tags
func (r Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// IngredientIDs returns the ids of the loaded ingredients
func (r Recipe) IngredientIDs() []uint {
	ids := make([]uint, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}

// RecipeImageFilePath derives the storage key for an uploaded image.
// Only the lower-cased extension of the client filename is kept.
func RecipeImageFilePath(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(filename)), "."))
	name := newImageID()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(RecipeImageDir, name)
}
