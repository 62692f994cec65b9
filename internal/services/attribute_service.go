package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
)

// MaxNameLength bounds tag and ingredient names
const MaxNameLength = 255

// AttributeService provides owner-scoped operations on tags and ingredients
type AttributeService[T any, P models.Attribute[T]] interface {
	// List returns the owner's records ordered by name descending
	List(ctx context.Context, ownerID uint, filter repository.AttributeFilter) ([]T, error)
	// Create validates name and stores a new record for the owner
	Create(ctx context.Context, ownerID uint, name string) (P, error)
	// Get retrieves one of the owner's records
	Get(ctx context.Context, ownerID, id uint) (P, error)
	// Update renames one of the owner's records
	Update(ctx context.Context, ownerID, id uint, name string) (P, error)
	// Delete removes one of the owner's records
	Delete(ctx context.Context, ownerID, id uint) error
}

// TagService is the AttributeService for tags
type TagService = AttributeService[models.Tag, *models.Tag]

// IngredientService is the AttributeService for ingredients
type IngredientService = AttributeService[models.Ingredient, *models.Ingredient]

type attributeService[T any, P models.Attribute[T]] struct {
	repo repository.AttributeRepository[T, P]
}

// NewTagService creates a new instance of TagService
func NewTagService(repo repository.TagRepository) TagService {
	return &attributeService[models.Tag, *models.Tag]{repo: repo}
}

// NewIngredientService creates a new instance of IngredientService
func NewIngredientService(repo repository.IngredientRepository) IngredientService {
	return &attributeService[models.Ingredient, *models.Ingredient]{repo: repo}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", NewValidationError("name", msgBlank)
	case len([]rune(name)) > MaxNameLength:
		return "", NewValidationError("name", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxNameLength))
	}
	return name, nil
}

func (s *attributeService[T, P]) List(ctx context.Context, ownerID uint, filter repository.AttributeFilter) ([]T, error) {
	return s.repo.List(ctx, ownerID, filter)
}

func (s *attributeService[T, P]) Create(ctx context.Context, ownerID uint, name string) (P, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	item := P(new(T))
	item.SetName(name)
	if err := s.repo.Create(ctx, ownerID, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *attributeService[T, P]) Get(ctx context.Context, ownerID, id uint) (P, error) {
	return s.repo.FindByID(ctx, ownerID, id)
}

func (s *attributeService[T, P]) Update(ctx context.Context, ownerID, id uint, name string) (P, error) {
	item, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	name, err = validateName(name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, ownerID, id, name); err != nil {
		return nil, err
	}
	item.SetName(name)
	return item, nil
}

func (s *attributeService[T, P]) Delete(ctx context.Context, ownerID, id uint) error {
	return s.repo.Delete(ctx, ownerID, id)
}
