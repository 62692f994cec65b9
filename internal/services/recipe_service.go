package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/franciscosanchezn/gin-recipe-api/internal/storage"
	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"
)

// Recipe field bounds
const (
	MaxTitleLength = 255
	MaxLinkLength  = 255
	MaxPrice       = 1000
)

// imageTypes maps the accepted upload extensions to their MIME type
var imageTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
}

// RecipeInput carries the writable recipe fields; nil fields were not supplied
type RecipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *float64
	Link        *string
	Tags        *[]uint
	Ingredients *[]uint
}

// RecipeService provides owner-scoped recipe operations
type RecipeService interface {
	// List returns the owner's recipes, newest first
	List(ctx context.Context, ownerID uint, filter repository.RecipeFilter) ([]models.Recipe, error)
	// Create validates the input and stores a new recipe
	Create(ctx context.Context, ownerID uint, in RecipeInput) (*models.Recipe, error)
	// Get retrieves one of the owner's recipes
	Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error)
	// Update applies in to a recipe; partial allows required fields to be omitted
	Update(ctx context.Context, ownerID, id uint, in RecipeInput, partial bool) (*models.Recipe, error)
	// Delete removes a recipe and its stored image
	Delete(ctx context.Context, ownerID, id uint) error
	// UploadImage stores an image for a recipe, replacing the previous one
	UploadImage(ctx context.Context, ownerID, id uint, filename string, r io.Reader) (*models.Recipe, error)
}

type recipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	storage     storage.Storage
}

// NewRecipeService creates a new instance of RecipeService
func NewRecipeService(recipes repository.RecipeRepository, tags repository.TagRepository,
	ingredients repository.IngredientRepository, store storage.Storage) RecipeService {
	return &recipeService{
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		storage:     store,
	}
}

func (s *recipeService) List(ctx context.Context, ownerID uint, filter repository.RecipeFilter) ([]models.Recipe, error) {
	return s.recipes.List(ctx, ownerID, filter)
}

func (s *recipeService) Get(ctx context.Context, ownerID, id uint) (*models.Recipe, error) {
	return s.recipes.FindByID(ctx, ownerID, id)
}

func (s *recipeService) Create(ctx context.Context, ownerID uint, in RecipeInput) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	if err := s.apply(ctx, ownerID, recipe, in, false); err != nil {
		return nil, err
	}
	if err := s.recipes.Create(ctx, ownerID, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return s.recipes.FindByID(ctx, ownerID, recipe.ID)
}

func (s *recipeService) Update(ctx context.Context, ownerID, id uint, in RecipeInput, partial bool) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, ownerID, recipe, in, partial); err != nil {
		return nil, err
	}

	opts := repository.UpdateOptions{ReplaceTags: in.Tags != nil, ReplaceIngredients: in.Ingredients != nil}
	if err := s.recipes.Update(ctx, ownerID, recipe, opts); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return s.recipes.FindByID(ctx, ownerID, id)
}

func (s *recipeService) Delete(ctx context.Context, ownerID, id uint) error {
	recipe, err := s.recipes.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.removeImage(ctx, recipe.Image)
	return nil
}

func (s *recipeService) UploadImage(ctx context.Context, ownerID, id uint, filename string, r io.Reader) (*models.Recipe, error) {
	recipe, err := s.recipes.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, NewValidationError("image", "The submitted file is empty.")
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, NewValidationError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	ext, ok := imageExtension(filename, mtype)
	if !ok {
		return nil, NewValidationError("image", "File extension is not allowed or does not match the image content.")
	}

	key := models.RecipeImageFilePath("image." + ext)
	if err := s.storage.Save(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	if err := s.recipes.SetImage(ctx, ownerID, id, key); err != nil {
		s.removeImage(ctx, key)
		return nil, err
	}

	log.WithFields(log.Fields{
		"recipe_id": id,
		"image":     key,
		"mime":      mtype.String(),
	}).Info("Recipe image uploaded")

	if recipe.Image != "" && recipe.Image != key {
		s.removeImage(ctx, recipe.Image)
	}
	recipe.Image = key
	return recipe, nil
}

// imageExtension picks the stored extension for an upload: the client's when it is
// an accepted image extension matching the content, the detected one when absent
func imageExtension(filename string, mtype *mimetype.MIME) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filepath.Base(filename)), "."))
	if ext == "" {
		ext = strings.TrimPrefix(mtype.Extension(), ".")
	}
	expected, ok := imageTypes[ext]
	if !ok || !mtype.Is(expected) {
		return "", false
	}
	return ext, true
}

// removeImage deletes a stored file; failures are only logged
func (s *recipeService) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.WithError(err).WithField("image", key).Warn("Failed to delete recipe image")
	}
}

// apply validates in and copies it onto recipe, resolving tag and ingredient ids
func (s *recipeService) apply(ctx context.Context, ownerID uint, recipe *models.Recipe, in RecipeInput, partial bool) error {
	v := &ValidationError{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		switch {
		case title == "":
			v.Add("title", msgBlank)
		case len([]rune(title)) > MaxTitleLength:
			v.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxTitleLength))
		default:
			recipe.Title = title
		}
	} else if !partial {
		v.Add("title", msgRequired)
	}

	if in.TimeMinutes != nil {
		if *in.TimeMinutes < 0 {
			v.Add("time_minutes", "Ensure this value is greater than or equal to 0.")
		} else {
			recipe.TimeMinutes = *in.TimeMinutes
		}
	} else if !partial {
		v.Add("time_minutes", msgRequired)
	}

	if in.Price != nil {
		if msg := validatePrice(*in.Price); msg != "" {
			v.Add("price", msg)
		} else {
			recipe.Price = *in.Price
		}
	} else if !partial {
		v.Add("price", msgRequired)
	}

	if in.Link != nil {
		link := strings.TrimSpace(*in.Link)
		if msg := validateLink(link); msg != "" {
			v.Add("link", msg)
		} else {
			recipe.Link = link
		}
	}

	if in.Tags != nil {
		tags, missing, err := resolve(ctx, s.tags, ownerID, *in.Tags)
		if err != nil {
			return err
		}
		addMissing(v, "tags", missing)
		recipe.Tags = tags
	}
	if in.Ingredients != nil {
		ingredients, missing, err := resolve(ctx, s.ingredients, ownerID, *in.Ingredients)
		if err != nil {
			return err
		}
		addMissing(v, "ingredients", missing)
		recipe.Ingredients = ingredients
	}

	return v.Err()
}

func validatePrice(price float64) string {
	switch {
	case math.IsNaN(price) || math.IsInf(price, 0):
		return "A valid number is required."
	case price < 0:
		return "Ensure this value is greater than or equal to 0."
	case price >= MaxPrice:
		return "Ensure that there are no more than 5 digits in total."
	case math.Abs(price*100-math.Round(price*100)) > 1e-6:
		return "Ensure that there are no more than 2 decimal places."
	}
	return ""
}

func validateLink(link string) string {
	if link == "" {
		return ""
	}
	if len(link) > MaxLinkLength {
		return fmt.Sprintf("Ensure this field has no more than %d characters.", MaxLinkLength)
	}
	u, err := url.ParseRequestURI(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Enter a valid URL."
	}
	return ""
}

// resolve loads the owner's records for ids and reports the ids that are not the owner's
func resolve[T any, P models.Attribute[T]](ctx context.Context, repo repository.AttributeRepository[T, P], ownerID uint, ids []uint) ([]T, []uint, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := repo.FindByIDs(ctx, ownerID, unique)
	if err != nil {
		return nil, nil, err
	}

	owned := make(map[uint]bool, len(found))
	for i := range found {
		owned[P(&found[i]).GetID()] = true
	}
	var missing []uint
	for _, id := range unique {
		if !owned[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return found, missing, nil
}

func addMissing(v *ValidationError, field string, missing []uint) {
	for _, id := range missing {
		v.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
	}
}
