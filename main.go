package main

import (
	"log"

	"photoquiz/config"
	"photoquiz/handlers"
	"photoquiz/middleware"
	"photoquiz/models"
	"photoquiz/routes"
	"photoquiz/services"
	"photoquiz/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.QuizResult{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis (play-session state)
	redisClient := config.InitRedis(cfg)

	// Initialize image store
	images, err := newImageStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize image store:", err)
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret, googleOAuth(cfg))
	quizService := services.NewQuizService(db, images)
	resultService := services.NewResultService(db)
	playService := services.NewPlayService(quizService, resultService, redisClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	playHandler := handlers.NewPlayHandler(playService)
	resultHandler := handlers.NewResultHandler(resultService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, playHandler, resultHandler, authService, cfg.StaticDir)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func newImageStore(cfg *config.Config) (storage.ImageStore, error) {
	if cfg.ImageStore == "cloudinary" {
		return storage.NewCloudinaryStore(cfg.CloudinaryURL)
	}
	return storage.NewFSStore(cfg.ImageStoreDir)
}

func googleOAuth(cfg *config.Config) *oauth2.Config {
	if cfg.GoogleClientID == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}
