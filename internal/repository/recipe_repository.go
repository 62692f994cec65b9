package repository

import (
	"context"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"gorm.io/gorm"
)

// GormRecipeRepository is a GORM implementation of RecipeRepository
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &GormRecipeRepository{db: db}
}

func (r *GormRecipeRepository) withAssociations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name DESC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.name DESC") })
}

// Create creates a recipe; the Tags and Ingredients already loaded on it become its links
func (r *GormRecipeRepository) Create(ctx context.Context, ownerID uint, recipe *models.Recipe) error {
	recipe.UserID = ownerID
	// the referenced rows already exist; only the link rows are written
	return translateError(r.db.WithContext(ctx).Omit("Tags.*", "Ingredients.*").Create(recipe).Error)
}

// List retrieves the owner's recipes with optional tag and ingredient filters
func (r *GormRecipeRepository) List(ctx context.Context, ownerID uint, filter RecipeFilter) ([]models.Recipe, error) {
	recipes := []models.Recipe{}

	query := r.withAssociations(ctx).Model(&models.Recipe{}).Where("recipes.user_id = ?", ownerID)

	if len(filter.TagIDs) > 0 {
		tagSubQuery := r.db.Table("recipe_tags").
			Select("1").
			Where("recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", filter.TagIDs)
		query = query.Where("EXISTS (?)", tagSubQuery)
	}
	if len(filter.IngredientIDs) > 0 {
		ingredientSubQuery := r.db.Table("recipe_ingredients").
			Select("1").
			Where("recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
		query = query.Where("EXISTS (?)", ingredientSubQuery)
	}

	if err := query.Order("recipes.id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByID finds one of the owner's recipes
func (r *GormRecipeRepository) FindByID(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withAssociations(ctx).Where("user_id = ?", ownerID).First(&recipe, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &recipe, nil
}

// Update writes the scalar columns and replaces the selected association sets atomically
func (r *GormRecipeRepository) Update(ctx context.Context, ownerID uint, recipe *models.Recipe, opts UpdateOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Recipe{}).
			Where("id = ? AND user_id = ?", recipe.ID, ownerID).
			Updates(map[string]interface{}{
				"title":        recipe.Title,
				"time_minutes": recipe.TimeMinutes,
				"price":        recipe.Price,
				"link":         recipe.Link,
			})
		if result.Error != nil {
			return result.Error
		}

		if opts.ReplaceTags {
			if err := replaceAssociation(tx, recipe, "Tags", len(recipe.Tags) == 0, recipe.Tags); err != nil {
				return err
			}
		}
		if opts.ReplaceIngredients {
			if err := replaceAssociation(tx, recipe, "Ingredients", len(recipe.Ingredients) == 0, recipe.Ingredients); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceAssociation(tx *gorm.DB, recipe *models.Recipe, name string, empty bool, values interface{}) error {
	assoc := tx.Model(recipe).Association(name)
	if empty {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

// SetImage stores the image key of one of the owner's recipes
func (r *GormRecipeRepository) SetImage(ctx context.Context, ownerID, id uint, key string) error {
	result := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("image", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one of the owner's recipes and its link rows
func (r *GormRecipeRepository) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a foreign recipe id rolls the link deletion back
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Where("user_id = ?", ownerID).Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
