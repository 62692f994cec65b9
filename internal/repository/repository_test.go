package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// RepositoryTestSuite exercises the GORM repositories against SQLite
type RepositoryTestSuite struct {
	suite.Suite
	ctx         context.Context
	db          *gorm.DB
	users       UserRepository
	tags        TagRepository
	ingredients IngredientRepository
	recipes     RecipeRepository
	owner       *models.User
	other       *models.User
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutil.NewTestDB(suite.T())
	suite.users = NewUserRepository(suite.db)
	suite.tags = NewTagRepository(suite.db)
	suite.ingredients = NewIngredientRepository(suite.db)
	suite.recipes = NewRecipeRepository(suite.db)
	suite.owner = suite.createUser("owner@example.com")
	suite.other = suite.createUser("other@example.com")
}

func (suite *RepositoryTestSuite) createUser(email string) *models.User {
	user := &models.User{Email: email, Password: "hash", IsActive: true}
	suite.Require().NoError(suite.users.Create(suite.ctx, user))
	return user
}

func (suite *RepositoryTestSuite) createTag(owner *models.User, name string) models.Tag {
	tag := &models.Tag{Name: name}
	suite.Require().NoError(suite.tags.Create(suite.ctx, owner.ID, tag))
	return *tag
}

func (suite *RepositoryTestSuite) createIngredient(owner *models.User, name string) models.Ingredient {
	ingredient := &models.Ingredient{Name: name}
	suite.Require().NoError(suite.ingredients.Create(suite.ctx, owner.ID, ingredient))
	return *ingredient
}

func (suite *RepositoryTestSuite) createRecipe(owner *models.User, title string, tags []models.Tag, ingredients []models.Ingredient) *models.Recipe {
	recipe := &models.Recipe{Title: title, TimeMinutes: 5, Price: 5.5, Tags: tags, Ingredients: ingredients}
	suite.Require().NoError(suite.recipes.Create(suite.ctx, owner.ID, recipe))
	return recipe
}

func (suite *RepositoryTestSuite) TestUserDuplicateEmail() {
	err := suite.users.Create(suite.ctx, &models.User{Email: "owner@example.com", Password: "hash"})
	suite.ErrorIs(err, ErrDuplicate)
}

func (suite *RepositoryTestSuite) TestUserFindAndUpdate() {
	found, err := suite.users.FindByEmail(suite.ctx, "owner@example.com")
	suite.Require().NoError(err)
	suite.Equal(suite.owner.ID, found.ID)

	found.Name = "Owner"
	found.IsActive = false
	suite.Require().NoError(suite.users.Update(suite.ctx, found))

	reloaded, err := suite.users.FindByID(suite.ctx, found.ID)
	suite.Require().NoError(err)
	suite.Equal("Owner", reloaded.Name)
	suite.False(reloaded.IsActive)

	_, err = suite.users.FindByEmail(suite.ctx, "missing@example.com")
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RepositoryTestSuite) TestUserList() {
	users, err := suite.users.List(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(users, 2)
	suite.Equal(suite.owner.ID, users[0].ID)
	suite.Equal(suite.other.ID, users[1].ID)
}

func (suite *RepositoryTestSuite) TestTagListIsOwnerScopedAndOrdered() {
	suite.createTag(suite.owner, "Dessert")
	suite.createTag(suite.owner, "Vegan")
	suite.createTag(suite.other, "Fruity")

	tags, err := suite.tags.List(suite.ctx, suite.owner.ID, AttributeFilter{})
	suite.Require().NoError(err)
	suite.Require().Len(tags, 2)
	suite.Equal("Vegan", tags[0].Name)
	suite.Equal("Dessert", tags[1].Name)
}

func (suite *RepositoryTestSuite) TestAssignedOnlyIsDistinct() {
	breakfast := suite.createTag(suite.owner, "Breakfast")
	suite.createTag(suite.owner, "Dinner")
	eggs := suite.createIngredient(suite.owner, "Eggs")
	suite.createIngredient(suite.owner, "Lentils")

	suite.createRecipe(suite.owner, "Eggs Benedict", []models.Tag{breakfast}, []models.Ingredient{eggs})
	suite.createRecipe(suite.owner, "Herb Eggs", []models.Tag{breakfast}, []models.Ingredient{eggs})

	tags, err := suite.tags.List(suite.ctx, suite.owner.ID, AttributeFilter{AssignedOnly: true})
	suite.Require().NoError(err)
	suite.Require().Len(tags, 1)
	suite.Equal(breakfast.ID, tags[0].ID)

	ingredients, err := suite.ingredients.List(suite.ctx, suite.owner.ID, AttributeFilter{AssignedOnly: true})
	suite.Require().NoError(err)
	suite.Require().Len(ingredients, 1)
	suite.Equal(eggs.ID, ingredients[0].ID)
}

func (suite *RepositoryTestSuite) TestAttributeForeignIDsAreNotFound() {
	foreign := suite.createTag(suite.other, "Theirs")

	_, err := suite.tags.FindByID(suite.ctx, suite.owner.ID, foreign.ID)
	suite.ErrorIs(err, ErrNotFound)
	suite.ErrorIs(suite.tags.Rename(suite.ctx, suite.owner.ID, foreign.ID, "Mine"), ErrNotFound)
	suite.ErrorIs(suite.tags.Delete(suite.ctx, suite.owner.ID, foreign.ID), ErrNotFound)

	found, err := suite.tags.FindByIDs(suite.ctx, suite.owner.ID, []uint{foreign.ID})
	suite.Require().NoError(err)
	suite.Empty(found)

	still, err := suite.tags.FindByID(suite.ctx, suite.other.ID, foreign.ID)
	suite.Require().NoError(err)
	suite.Equal("Theirs", still.Name)
}

func (suite *RepositoryTestSuite) TestAttributeRenameAndDelete() {
	tag := suite.createTag(suite.owner, "Old")
	recipe := suite.createRecipe(suite.owner, "Soup", []models.Tag{tag}, nil)

	suite.Require().NoError(suite.tags.Rename(suite.ctx, suite.owner.ID, tag.ID, "New"))
	renamed, err := suite.tags.FindByID(suite.ctx, suite.owner.ID, tag.ID)
	suite.Require().NoError(err)
	suite.Equal("New", renamed.Name)

	suite.Require().NoError(suite.tags.Delete(suite.ctx, suite.owner.ID, tag.ID))
	reloaded, err := suite.recipes.FindByID(suite.ctx, suite.owner.ID, recipe.ID)
	suite.Require().NoError(err)
	suite.Empty(reloaded.Tags)
}

func (suite *RepositoryTestSuite) TestRecipeCreateAndFind() {
	vegan := suite.createTag(suite.owner, "Vegan")
	dessert := suite.createTag(suite.owner, "Dessert")
	salt := suite.createIngredient(suite.owner, "Salt")

	recipe := suite.createRecipe(suite.owner, "Thai Curry", []models.Tag{dessert, vegan}, []models.Ingredient{salt})

	found, err := suite.recipes.FindByID(suite.ctx, suite.owner.ID, recipe.ID)
	suite.Require().NoError(err)
	suite.Equal("Thai Curry", found.Title)
	suite.Equal(suite.owner.ID, found.UserID)
	suite.Equal([]uint{vegan.ID, dessert.ID}, found.TagIDs())
	suite.Equal([]uint{salt.ID}, found.IngredientIDs())

	_, err = suite.recipes.FindByID(suite.ctx, suite.other.ID, recipe.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *RepositoryTestSuite) TestRecipeListFilters() {
	vegan := suite.createTag(suite.owner, "Vegan")
	vegetarian := suite.createTag(suite.owner, "Vegetarian")
	feta := suite.createIngredient(suite.owner, "Feta")
	chicken := suite.createIngredient(suite.owner, "Chicken")

	curry := suite.createRecipe(suite.owner, "Curry", []models.Tag{vegan}, nil)
	tahini := suite.createRecipe(suite.owner, "Tahini", []models.Tag{vegan, vegetarian}, []models.Ingredient{feta})
	stew := suite.createRecipe(suite.owner, "Stew", []models.Tag{vegetarian}, []models.Ingredient{chicken})
	plain := suite.createRecipe(suite.owner, "Plain", nil, nil)
	suite.createRecipe(suite.other, "Theirs", nil, nil)

	all, err := suite.recipes.List(suite.ctx, suite.owner.ID, RecipeFilter{})
	suite.Require().NoError(err)
	suite.Equal([]uint{plain.ID, stew.ID, tahini.ID, curry.ID}, recipeIDs(all))

	byTags, err := suite.recipes.List(suite.ctx, suite.owner.ID, RecipeFilter{TagIDs: []uint{vegan.ID, vegetarian.ID}})
	suite.Require().NoError(err)
	suite.Equal([]uint{stew.ID, tahini.ID, curry.ID}, recipeIDs(byTags))

	both, err := suite.recipes.List(suite.ctx, suite.owner.ID, RecipeFilter{
		TagIDs:        []uint{vegan.ID},
		IngredientIDs: []uint{feta.ID, chicken.ID},
	})
	suite.Require().NoError(err)
	suite.Equal([]uint{tahini.ID}, recipeIDs(both))
}

func (suite *RepositoryTestSuite) TestRecipeUpdateReplacesAssociations() {
	vegan := suite.createTag(suite.owner, "Vegan")
	lunch := suite.createTag(suite.owner, "Lunch")
	salt := suite.createIngredient(suite.owner, "Salt")
	recipe := suite.createRecipe(suite.owner, "Curry", []models.Tag{vegan}, []models.Ingredient{salt})

	recipe.Title = "Red Curry"
	recipe.Price = 12.25
	recipe.Tags = []models.Tag{lunch}
	recipe.Ingredients = nil
	suite.Require().NoError(suite.recipes.Update(suite.ctx, suite.owner.ID, recipe, UpdateOptions{ReplaceTags: true, ReplaceIngredients: true}))

	found, err := suite.recipes.FindByID(suite.ctx, suite.owner.ID, recipe.ID)
	suite.Require().NoError(err)
	suite.Equal("Red Curry", found.Title)
	suite.InDelta(12.25, found.Price, 0.001)
	suite.Equal([]uint{lunch.ID}, found.TagIDs())
	suite.Empty(found.Ingredients)

	// the tag row itself survives association replacement
	_, err = suite.tags.FindByID(suite.ctx, suite.owner.ID, vegan.ID)
	suite.NoError(err)
}

func (suite *RepositoryTestSuite) TestRecipeUpdateKeepsAssociationsWhenNotRequested() {
	vegan := suite.createTag(suite.owner, "Vegan")
	recipe := suite.createRecipe(suite.owner, "Curry", []models.Tag{vegan}, nil)

	recipe.Tags = nil
	recipe.TimeMinutes = 30
	suite.Require().NoError(suite.recipes.Update(suite.ctx, suite.owner.ID, recipe, UpdateOptions{}))

	found, err := suite.recipes.FindByID(suite.ctx, suite.owner.ID, recipe.ID)
	suite.Require().NoError(err)
	suite.Equal(30, found.TimeMinutes)
	suite.Equal([]uint{vegan.ID}, found.TagIDs())
}

func (suite *RepositoryTestSuite) TestRecipeSetImageAndDelete() {
	tag := suite.createTag(suite.owner, "Vegan")
	recipe := suite.createRecipe(suite.owner, "Curry", []models.Tag{tag}, nil)

	suite.Require().NoError(suite.recipes.SetImage(suite.ctx, suite.owner.ID, recipe.ID, "uploads/recipe/a.jpg"))
	suite.ErrorIs(suite.recipes.SetImage(suite.ctx, suite.other.ID, recipe.ID, "uploads/recipe/b.jpg"), ErrNotFound)

	found, err := suite.recipes.FindByID(suite.ctx, suite.owner.ID, recipe.ID)
	suite.Require().NoError(err)
	suite.Equal("uploads/recipe/a.jpg", found.Image)

	suite.ErrorIs(suite.recipes.Delete(suite.ctx, suite.other.ID, recipe.ID), ErrNotFound)
	suite.Require().NoError(suite.recipes.Delete(suite.ctx, suite.owner.ID, recipe.ID))

	var links int64
	suite.db.Table("recipe_tags").Where("recipe_id = ?", recipe.ID).Count(&links)
	suite.Zero(links)

	_, err = suite.recipes.FindByID(suite.ctx, suite.owner.ID, recipe.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func recipeIDs(recipes []models.Recipe) []uint {
	ids := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, mock
}

func TestRecipeListPropagatesDatabaseErrors(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT .* FROM "recipes"`).WillReturnError(boom)

	recipes, err := NewRecipeRepository(db).List(context.Background(), 1, RecipeFilter{TagIDs: []uint{2}})

	assert.ErrorIs(t, err, boom)
	assert.Nil(t, recipes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeDeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM recipe_tags`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "tags"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := NewTagRepository(db).Delete(context.Background(), 1, 99)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserFindByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	user, err := NewUserRepository(db).FindByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
