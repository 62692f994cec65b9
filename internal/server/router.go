// Package server assembles the HTTP router of the recipe API.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/controllers"
	"github.com/franciscosanchezn/gin-recipe-api/internal/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies holds everything the router dispatches to
type Dependencies struct {
	Tokens      auth.TokenService
	Users       *controllers.UserController
	Tags        controllers.AttributeHandler
	Ingredients controllers.AttributeHandler
	Recipes     controllers.RecipeController

	// MediaURL and MediaRoot expose stored uploads; empty MediaRoot disables serving
	MediaURL  string
	MediaRoot string
}

// NewRouter builds the gin engine with every API route
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.HandleMethodNotAllowed = true
	router.NoMethod(authenticateProtected(deps.Tokens), controllers.HandleMethodNotAllowed)
	router.NoRoute(controllers.HandleNotFound)

	router.GET("/health", healthCheckHandler)

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/create", deps.Users.CreateUser)
			user.POST("/token", deps.Users.CreateToken)

			authed := user.Group("", middleware.TokenAuth(deps.Tokens))
			authed.DELETE("/token", deps.Users.RevokeToken)
			authed.GET("/me", deps.Users.GetProfile)
			authed.PATCH("/me", deps.Users.UpdateProfile)
		}

		recipe := api.Group("/recipe", middleware.TokenAuth(deps.Tokens))
		{
			registerAttributeRoutes(recipe.Group("/tags"), deps.Tags)
			registerAttributeRoutes(recipe.Group("/ingredients"), deps.Ingredients)

			recipes := recipe.Group("/recipes")
			recipes.GET("", deps.Recipes.ListRecipes)
			recipes.POST("", deps.Recipes.CreateRecipe)
			recipes.GET("/:id", deps.Recipes.GetRecipe)
			recipes.PUT("/:id", deps.Recipes.UpdateRecipe)
			recipes.PATCH("/:id", deps.Recipes.UpdateRecipe)
			recipes.DELETE("/:id", deps.Recipes.DeleteRecipe)
			recipes.POST("/:id/upload-image", deps.Recipes.UploadImage)
		}

		admin := api.Group("/admin", middleware.TokenAuth(deps.Tokens), middleware.RequireStaff())
		{
			admin.GET("/users", deps.Users.ListUsers)
		}
	}

	if deps.MediaRoot != "" && strings.HasPrefix(deps.MediaURL, "/") {
		router.StaticFS(strings.TrimSuffix(deps.MediaURL, "/"), gin.Dir(deps.MediaRoot, false))
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// publicPaths are the API paths served without a token
var publicPaths = map[string]bool{
	"/api/user/create": true,
	"/api/user/token":  true,
}

// authenticateProtected runs token authentication for unmatched verbs on protected
// API paths, so anonymous callers get 401 before 405
func authenticateProtected(tokens auth.TokenService) gin.HandlerFunc {
	tokenAuth := middleware.TokenAuth(tokens)
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api/") || publicPaths[path] {
			c.Next()
			return
		}
		tokenAuth(c)
	}
}

func registerAttributeRoutes(group *gin.RouterGroup, h controllers.AttributeHandler) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-recipe-api",
	})
}
