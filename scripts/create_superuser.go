package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/config"
	"github.com/franciscosanchezn/gin-recipe-api/internal/database"
	"github.com/franciscosanchezn/gin-recipe-api/internal/repository"
	"github.com/franciscosanchezn/gin-recipe-api/internal/services"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	email := flag.String("email", "", "Superuser email")
	password := flag.String("password", "", "Superuser password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	conf, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.InitDatabase(database.FromAppConfig(conf))
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("Failed to migrate database")
	}

	users := services.NewUserService(repository.NewUserRepository(db), auth.NewBcryptHasher(conf.BcryptCost))
	user, err := users.CreateSuperuser(context.Background(), *email, *password)
	if err != nil {
		log.WithError(err).Fatal("Failed to create superuser")
	}

	fmt.Printf("✓ Superuser created: %s (ID: %d)\n", user.Email, user.ID)
	fmt.Println("\nObtain a token with:")
	fmt.Printf("curl -X POST http://%s:%d/api/user/token \\\n", conf.Host, conf.Port)
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\": \"%s\", \"password\": \"<password>\"}'\n", user.Email)
}
