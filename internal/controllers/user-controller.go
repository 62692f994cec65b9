package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/dto"
	"github.com/franciscosanchezn/gin-recipe-api/internal/middleware"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/gin-gonic/gin"
)

// UserController handles registration, tokens and the caller's profile
type UserController struct {
	users  services.UserService
	tokens auth.TokenService
}

// NewUserController creates a new instance of UserController
func NewUserController(users services.UserService, tokens auth.TokenService) *UserController {
	return &UserController{users: users, tokens: tokens}
}

// CreateUser godoc
// @Summary Register a user
// @Description Create a new user account
// @Tags user
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "New user"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} models.APIError
// @Router /api/user/create [post]
func (uc *UserController) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.users.CreateUser(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// CreateToken godoc
// @Summary Obtain an API token
// @Description Exchange email and password for the user's API token
// @Tags user
// @Accept json
// @Produce json
// @Param credentials body dto.TokenRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} models.APIError
// @Router /api/user/token [post]
func (uc *UserController) CreateToken(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := uc.tokens.IssueToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// RevokeToken godoc
// @Summary Log out
// @Description Revoke the token used to authenticate the request
// @Tags user
// @Success 204
// @Failure 401 {object} models.APIError
// @Security TokenAuth
// @Router /api/user/token [delete]
func (uc *UserController) RevokeToken(c *gin.Context) {
	if err := uc.tokens.Revoke(c.Request.Context(), middleware.GetToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfile godoc
// @Summary Get own profile
// @Tags user
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} models.APIError
// @Security TokenAuth
// @Router /api/user/me [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized,
			"Authentication credentials were not provided."))
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Partially update email, name or password of the caller
// @Tags user
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security TokenAuth
// @Router /api/user/me [patch]
func (uc *UserController) UpdateProfile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized,
			"Authentication credentials were not provided."))
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := uc.users.UpdateProfile(c.Request.Context(), user, services.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(updated))
}

// ListUsers godoc
// @Summary List users
// @Description List every account; staff only
// @Tags admin
// @Produce json
// @Success 200 {array} dto.AdminUserResponse
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security TokenAuth
// @Router /api/admin/users [get]
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAdminUserResponses(users))
}
