package controllers

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/dto"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RecipeController handles HTTP requests related to recipes
type RecipeController interface {
	// ListRecipes retrieves the caller's recipes
	ListRecipes(c *gin.Context)
	// GetRecipe retrieves one recipe with nested tags and ingredients
	GetRecipe(c *gin.Context)
	// CreateRecipe creates a new recipe
	CreateRecipe(c *gin.Context)
	// UpdateRecipe replaces (PUT) or patches (PATCH) a recipe
	UpdateRecipe(c *gin.Context)
	// DeleteRecipe deletes a recipe
	DeleteRecipe(c *gin.Context)
	// UploadImage attaches an image to a recipe
	UploadImage(c *gin.Context)
}

type recipeController struct {
	service     services.RecipeService
	imageURL    func(key string) string
	maxUploadMB int
}

// NewRecipeController creates a new instance of RecipeController
func NewRecipeController(service services.RecipeService, imageURL func(key string) string, maxUploadMB int) RecipeController {
	return &recipeController{service: service, imageURL: imageURL, maxUploadMB: maxUploadMB}
}

func toRecipeInput(req dto.RecipeRequest) services.RecipeInput {
	in := services.RecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	}
	if req.Price != nil {
		price := float64(*req.Price)
		in.Price = &price
	}
	return in
}

// ListRecipes godoc
// @Summary List recipes
// @Description List the caller's recipes, newest first. Ids within one filter are OR-ed, the two filters are AND-ed.
// @Tags recipes
// @Produce json
// @Param tags query string false "Comma-separated tag ids"
// @Param ingredients query string false "Comma-separated ingredient ids"
// @Success 200 {array} dto.RecipeResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/recipes [get]
func (rc *recipeController) ListRecipes(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	tagIDs, ok := parseIDList(c, "tags")
	if !ok {
		return
	}
	ingredientIDs, ok := parseIDList(c, "ingredients")
	if !ok {
		return
	}

	recipes, err := rc.service.List(c.Request.Context(), ownerID, repository.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRecipeResponses(recipes))
}

// GetRecipe godoc
// @Summary Get recipe by ID
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} dto.RecipeDetailResponse
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/recipes/{id} [get]
func (rc *recipeController) GetRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	recipe, err := rc.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRecipeDetailResponse(recipe, rc.imageURL))
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description Tags and ingredients must belong to the caller
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body dto.RecipeRequest true "Recipe"
// @Success 201 {object} dto.RecipeDetailResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/recipes [post]
func (rc *recipeController) CreateRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := rc.service.Create(c.Request.Context(), ownerID, toRecipeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewRecipeDetailResponse(recipe, rc.imageURL))
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description PUT requires title, time_minutes and price; PATCH changes only the supplied fields. Supplying tags or ingredients replaces the set.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body dto.RecipeRequest true "Recipe"
// @Success 200 {object} dto.RecipeDetailResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/recipes/{id} [put]
// @Router /api/recipe/recipes/{id} [patch]
func (rc *recipeController) UpdateRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	partial := c.Request.Method == http.MethodPatch
	recipe, err := rc.service.Update(c.Request.Context(), ownerID, id, toRecipeInput(req), partial)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRecipeDetailResponse(recipe, rc.imageURL))
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/recipes/{id} [delete]
func (rc *recipeController) DeleteRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := rc.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Upload a recipe image
// @Description Store an image for the recipe, replacing any previous one
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Recipe ID"
// @Param image formData file true "Image file"
// @Success 200 {object} dto.RecipeImageResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/recipes/{id}/upload-image [post]
func (rc *recipeController) UploadImage(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	limit := int64(rc.maxUploadMB) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, services.NewValidationError("image", "The submitted file is too large."))
			return
		}
		respondError(c, services.NewValidationError("image", "No file was submitted."))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	recipe, err := rc.service.UploadImage(c.Request.Context(), ownerID, id, header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RecipeImageResponse{ID: recipe.ID, Image: rc.imageURL(recipe.Image)})
}
