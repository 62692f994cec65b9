package repository

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update persists name, password and flag changes
	Update(ctx context.Context, user *models.User) error

	// List returns every user ordered by ID
	List(ctx context.Context) ([]models.User, error)
}

// AttributeFilter holds filtering options for listing tags and ingredients
type AttributeFilter struct {
	// AssignedOnly keeps only records used by at least one of the owner's recipes
	AssignedOnly bool
}

// AttributeRepository defines owner-scoped data access for tags and ingredients
type AttributeRepository[T any, P models.Attribute[T]] interface {
	// Create stores item as owned by ownerID
	Create(ctx context.Context, ownerID uint, item P) error

	// List returns the owner's records ordered by name descending
	List(ctx context.Context, ownerID uint, filter AttributeFilter) ([]T, error)

	// FindByID finds one of the owner's records
	FindByID(ctx context.Context, ownerID, id uint) (P, error)

	// FindByIDs returns the owner's records among ids; unknown ids are skipped
	FindByIDs(ctx context.Context, ownerID uint, ids []uint) ([]T, error)

	// Rename changes the name of one of the owner's records
	Rename(ctx context.Context, ownerID, id uint, name string) error

	// Delete removes one of the owner's records and its recipe links
	Delete(ctx context.Context, ownerID, id uint) error
}

// TagRepository is the AttributeRepository for tags
type TagRepository = AttributeRepository[models.Tag, *models.Tag]

// IngredientRepository is the AttributeRepository for ingredients
type IngredientRepository = AttributeRepository[models.Ingredient, *models.Ingredient]

// RecipeFilter holds filtering options for listing recipes.
// IDs within one axis are OR-ed, the two axes are AND-ed.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository defines owner-scoped data access for recipes
type RecipeRepository interface {
	// Create creates a recipe together with its tag and ingredient links
	Create(ctx context.Context, ownerID uint, recipe *models.Recipe) error

	// List retrieves the owner's recipes, newest first, with associations loaded
	List(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error)

	// FindByID finds one of the owner's recipes with associations loaded
	FindByID(ctx context.Context, ownerID, id uint) (*models.Recipe, error)

	// Update writes scalar fields and, when requested, replaces association sets
	Update(ctx context.Context, ownerID uint, recipe *models.Recipe, opts UpdateOptions) error

	// SetImage stores the image key of one of the owner's recipes
	SetImage(ctx context.Context, ownerID, id uint, key string) error

	// Delete removes one of the owner's recipes and its links
	Delete(ctx context.Context, ownerID, id uint) error
}

// UpdateOptions selects which association sets Update replaces
type UpdateOptions struct {
	ReplaceTags        bool
	ReplaceIngredients bool
}

// translateError maps GORM errors onto the repository sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
