package main

import (
	"fmt"
	"time"

	_ "github.com/franciscosanchezn/gin-recipe-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-api/internal/controllers"
	"github.com/franciscosanchezn/gin-recipe-api/internal/database"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/franciscosanchezn/gin-recipe-api/internal/server"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/franciscosanchezn/gin-recipe-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config
)

// @title Recipe API
// @version 1.0
// @description Owner-scoped recipes, tags and ingredients with token authentication
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description Type "Token" followed by a space and the API token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	db = setupDatabase(configuration)

	// Initialize repositories, services and controllers
	router := setupRouter(configuration)

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	checkPanicErr(router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port)))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
// LOG_LEVEL, when valid, overrides the environment default
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
		gin.SetMode(gin.ReleaseMode)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if raw := config.GetEnvWithDefault("LOG_LEVEL", ""); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			log.WithField("log_level", raw).Warn("Ignoring invalid LOG_LEVEL")
			return
		}
		log.SetLevel(level)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects to the configured database and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	conn, err := database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(conn))
	return conn
}

// setupRouter wires repositories, services and controllers into the gin router
func setupRouter(conf *config.Config) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	tokens := auth.NewTokenService(db, userRepo, auth.TokenConfig{
		Format: conf.TokenFormat,
		Secret: conf.TokenSecret,
		TTL:    time.Duration(conf.TokenTTLHours) * time.Hour,
	})
	store := storage.NewLocalStorage(conf.MediaRoot, conf.MediaURL, log.StandardLogger())

	userService := services.NewUserService(userRepo, auth.NewBcryptHasher(conf.BcryptCost))
	recipeService := services.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, store)

	return server.NewRouter(server.Dependencies{
		Tokens:      tokens,
		Users:       controllers.NewUserController(userService, tokens),
		Tags:        controllers.NewTagController(services.NewTagService(tagRepo)),
		Ingredients: controllers.NewIngredientController(services.NewIngredientService(ingredientRepo)),
		Recipes:     controllers.NewRecipeController(recipeService, store.URL, conf.MaxUploadMB),
		MediaURL:    conf.MediaURL,
		MediaRoot:   store.Root(),
	})
}
