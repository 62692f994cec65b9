package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/dto"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AttributeController serves the owner-scoped tag and ingredient endpoints
type AttributeController[T any, P models.Attribute[T]] struct {
	service services.AttributeService[T, P]
}

// NewTagController creates the controller for /api/recipe/tags
func NewTagController(service services.TagService) *AttributeController[models.Tag, *models.Tag] {
	return &AttributeController[models.Tag, *models.Tag]{service: service}
}

// NewIngredientController creates the controller for /api/recipe/ingredients
func NewIngredientController(service services.IngredientService) *AttributeController[models.Ingredient, *models.Ingredient] {
	return &AttributeController[models.Ingredient, *models.Ingredient]{service: service}
}

// List returns the caller's records; assigned_only=1 keeps those used by a recipe
// @Summary List tags or ingredients
// @Description List the caller's records ordered by name descending
// @Tags tags,ingredients
// @Produce json
// @Param assigned_only query int false "Only return records assigned to a recipe"
// @Success 200 {array} dto.AttributeResponse
// @Failure 401 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/tags [get]
// @Router /api/recipe/ingredients [get]
func (ac *AttributeController[T, P]) List(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	items, err := ac.service.List(c.Request.Context(), ownerID, repository.AttributeFilter{
		AssignedOnly: parseFlag(c, "assigned_only"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAttributeResponses[T, P](items))
}

// Create stores a new record for the caller
// @Summary Create a tag or ingredient
// @Tags tags,ingredients
// @Accept json
// @Produce json
// @Param attribute body dto.AttributeRequest true "Name"
// @Success 201 {object} dto.AttributeResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/tags [post]
// @Router /api/recipe/ingredients [post]
func (ac *AttributeController[T, P]) Create(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.AttributeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil {
		respondError(c, services.NewValidationError("name", "This field is required."))
		return
	}

	item, err := ac.service.Create(c.Request.Context(), ownerID, *req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAttributeResponse[T, P](item))
}

// Get returns one of the caller's records
// @Summary Get a tag or ingredient
// @Tags tags,ingredients
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} dto.AttributeResponse
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/tags/{id} [get]
// @Router /api/recipe/ingredients/{id} [get]
func (ac *AttributeController[T, P]) Get(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := ac.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAttributeResponse[T, P](item))
}

// Update renames a record; PATCH without a name leaves it unchanged
// @Summary Rename a tag or ingredient
// @Tags tags,ingredients
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Param attribute body dto.AttributeRequest true "Name"
// @Success 200 {object} dto.AttributeResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/tags/{id} [put]
// @Router /api/recipe/tags/{id} [patch]
// @Router /api/recipe/ingredients/{id} [put]
// @Router /api/recipe/ingredients/{id} [patch]
func (ac *AttributeController[T, P]) Update(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.AttributeRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		item P
		err  error
	)
	switch {
	case req.Name != nil:
		item, err = ac.service.Update(c.Request.Context(), ownerID, id, *req.Name)
	case c.Request.Method == http.MethodPatch:
		item, err = ac.service.Get(c.Request.Context(), ownerID, id)
	default:
		err = services.NewValidationError("name", "This field is required.")
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAttributeResponse[T, P](item))
}

// Delete removes one of the caller's records
// @Summary Delete a tag or ingredient
// @Tags tags,ingredients
// @Param id path int true "ID"
// @Success 204
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security TokenAuth
// @Router /api/recipe/tags/{id} [delete]
// @Router /api/recipe/ingredients/{id} [delete]
func (ac *AttributeController[T, P]) Delete(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ac.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AttributeHandler is the route surface shared by the tag and ingredient controllers
type AttributeHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}
