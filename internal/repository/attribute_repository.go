package repository

import (
	"context"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"gorm.io/gorm"
)

// attributeTables names the tables backing one attribute kind
type attributeTables struct {
	table      string
	joinTable  string
	joinColumn string
}

// GormAttributeRepository is a GORM implementation of AttributeRepository
type GormAttributeRepository[T any, P models.Attribute[T]] struct {
	db     *gorm.DB
	tables attributeTables
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormAttributeRepository[models.Tag, *models.Tag]{
		db:     db,
		tables: attributeTables{table: "tags", joinTable: "recipe_tags", joinColumn: "tag_id"},
	}
}

// NewIngredientRepository creates a new IngredientRepository
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &GormAttributeRepository[models.Ingredient, *models.Ingredient]{
		db:     db,
		tables: attributeTables{table: "ingredients", joinTable: "recipe_ingredients", joinColumn: "ingredient_id"},
	}
}

// owned scopes a query to the owner's rows
func (r *GormAttributeRepository[T, P]) owned(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Where(r.tables.table+".user_id = ?", ownerID)
}

func (r *GormAttributeRepository[T, P]) Create(ctx context.Context, ownerID uint, item P) error {
	item.SetOwner(ownerID)
	return translateError(r.db.WithContext(ctx).Create(item).Error)
}

func (r *GormAttributeRepository[T, P]) List(ctx context.Context, ownerID uint, filter AttributeFilter) ([]T, error) {
	items := []T{}
	query := r.owned(ctx, ownerID)

	if filter.AssignedOnly {
		// EXISTS keeps each row once however many recipes use it
		assigned := r.db.Table(r.tables.joinTable).
			Select("1").
			Joins("JOIN recipes ON recipes.id = "+r.tables.joinTable+".recipe_id").
			Where(r.tables.joinTable+"."+r.tables.joinColumn+" = "+r.tables.table+".id").
			Where("recipes.user_id = ?", ownerID)
		query = query.Where("EXISTS (?)", assigned)
	}

	if err := query.Order(r.tables.table + ".name DESC").Order(r.tables.table + ".id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormAttributeRepository[T, P]) FindByID(ctx context.Context, ownerID, id uint) (P, error) {
	item := P(new(T))
	if err := r.owned(ctx, ownerID).Where(r.tables.table+".id = ?", id).First(item).Error; err != nil {
		return nil, translateError(err)
	}
	return item, nil
}

func (r *GormAttributeRepository[T, P]) FindByIDs(ctx context.Context, ownerID uint, ids []uint) ([]T, error) {
	items := []T{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.owned(ctx, ownerID).Where(r.tables.table+".id IN ?", ids).Order(r.tables.table + ".id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormAttributeRepository[T, P]) Rename(ctx context.Context, ownerID, id uint, name string) error {
	result := r.owned(ctx, ownerID).Where(r.tables.table+".id = ?", id).Update("name", name)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormAttributeRepository[T, P]) Delete(ctx context.Context, ownerID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+r.tables.joinTable+" WHERE "+r.tables.joinColumn+" = ?", id).Error; err != nil {
			return err
		}
		result := tx.Where("user_id = ?", ownerID).Delete(new(T), id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
