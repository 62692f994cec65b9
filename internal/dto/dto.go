// Package dto defines the JSON request and response bodies of the API.
package dto

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
)

// CreateUserRequest is the body of POST /api/user/create
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"testpass123"`
	Name     string `json:"name" binding:"max=255" example:"Jane Doe"`
}

// UpdateProfileRequest is the body of PATCH /api/user/me; absent fields are left unchanged
type UpdateProfileRequest struct {
	Email    *string `json:"email" example:"user@example.com"`
	Name     *string `json:"name" binding:"omitempty,max=255" example:"Jane Doe"`
	Password *string `json:"password" example:"newpassword123"`
}

// TokenRequest is the body of POST /api/user/token
type TokenRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"testpass123"`
}

// TokenResponse carries an issued API token
type TokenResponse struct {
	Token string `json:"token" example:"NjE2MzQ4ZTQtYzQ0Ny0zNGI0LWE3YjEtZjc0NDQ3YzU0YmEy"`
}

// UserResponse is the public profile of a user
type UserResponse struct {
	Email string `json:"email" example:"user@example.com"`
	Name  string `json:"name" example:"Jane Doe"`
}

// NewUserResponse maps a user to its public profile
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

// AdminUserResponse is the staff view of a user
type AdminUserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAdminUserResponses maps users to their staff view
func NewAdminUserResponses(users []models.User) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, AdminUserResponse{
			ID:          u.ID,
			Email:       u.Email,
			Name:        u.Name,
			IsActive:    u.IsActive,
			IsStaff:     u.IsStaff,
			IsSuperuser: u.IsSuperuser,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out
}

// AttributeRequest is the body used to create or rename a tag or ingredient
type AttributeRequest struct {
	Name *string `json:"name" example:"Vegan"`
}

// AttributeResponse is a tag or ingredient
type AttributeResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Vegan"`
}

// NewAttributeResponse maps a tag or ingredient to its response
func NewAttributeResponse[T any, P models.Attribute[T]](item P) AttributeResponse {
	return AttributeResponse{ID: item.GetID(), Name: item.GetName()}
}

// NewAttributeResponses maps a list of tags or ingredients
func NewAttributeResponses[T any, P models.Attribute[T]](items []T) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(items))
	for i := range items {
		out = append(out, NewAttributeResponse[T, P](&items[i]))
	}
	return out
}

// Price is a decimal amount with two fractional digits.
// It is encoded as a JSON string and accepts either a string or a number.
type Price float64

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(float64(p), 'f', 2, 64))
}

func (p *Price) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return &json.UnmarshalTypeError{Value: "string " + raw, Type: reflect.TypeOf(float64(0))}
	}
	*p = Price(value)
	return nil
}

// RecipeRequest is the body of recipe create and update requests; absent fields are nil
type RecipeRequest struct {
	Title       *string `json:"title" example:"Thai Prawn Curry"`
	TimeMinutes *int    `json:"time_minutes" binding:"omitempty,min=0" example:"30"`
	Price       *Price  `json:"price" swaggertype:"string" example:"5.50"`
	Link        *string `json:"link" example:"https://example.com/curry"`
	Tags        *[]uint `json:"tags" example:"1,2"`
	Ingredients *[]uint `json:"ingredients" example:"3"`
}

// RecipeResponse is the list representation of a recipe
type RecipeResponse struct {
	ID          uint   `json:"id" example:"1"`
	Title       string `json:"title" example:"Thai Prawn Curry"`
	TimeMinutes int    `json:"time_minutes" example:"30"`
	Price       Price  `json:"price" swaggertype:"string" example:"5.50"`
	Link        string `json:"link" example:"https://example.com/curry"`
	Tags        []uint `json:"tags"`
	Ingredients []uint `json:"ingredients"`
}

// RecipeDetailResponse is the detail representation of a recipe with nested tags and ingredients
type RecipeDetailResponse struct {
	ID          uint                `json:"id" example:"1"`
	Title       string              `json:"title" example:"Thai Prawn Curry"`
	TimeMinutes int                 `json:"time_minutes" example:"30"`
	Price       Price               `json:"price" swaggertype:"string" example:"5.50"`
	Link        string              `json:"link" example:"https://example.com/curry"`
	Image       *string             `json:"image" example:"/media/uploads/recipe/1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed.jpg"`
	Tags        []AttributeResponse `json:"tags"`
	Ingredients []AttributeResponse `json:"ingredients"`
}

// RecipeImageResponse is returned by the image upload endpoint
type RecipeImageResponse struct {
	ID    uint   `json:"id" example:"1"`
	Image string `json:"image" example:"/media/uploads/recipe/1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed.jpg"`
}

// NewRecipeResponse maps a recipe to its list representation
func NewRecipeResponse(r *models.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       Price(r.Price),
		Link:        r.Link,
		Tags:        r.TagIDs(),
		Ingredients: r.IngredientIDs(),
	}
}

// NewRecipeResponses maps recipes to their list representation
func NewRecipeResponses(recipes []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewRecipeResponse(&recipes[i]))
	}
	return out
}

// NewRecipeDetailResponse maps a recipe to its detail representation; imageURL builds the public image URL
func NewRecipeDetailResponse(r *models.Recipe, imageURL func(key string) string) RecipeDetailResponse {
	var image *string
	if r.Image != "" {
		url := imageURL(r.Image)
		image = &url
	}
	return RecipeDetailResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       Price(r.Price),
		Link:        r.Link,
		Image:       image,
		Tags:        NewAttributeResponses[models.Tag, *models.Tag](r.Tags),
		Ingredients: NewAttributeResponses[models.Ingredient, *models.Ingredient](r.Ingredients),
	}
}
