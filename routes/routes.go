package routes

import (
	"net/http"
	"path/filepath"

	"photoquiz/handlers"
	"photoquiz/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	playHandler *handlers.PlayHandler,
	resultHandler *handlers.ResultHandler,
	verifier middleware.TokenVerifier,
	staticDir string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/google", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		// Single-quiz reads stay public so shared quiz links resolve
		api.GET("/quizzes/:id", quizHandler.GetQuizByID)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(verifier))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Quiz authoring and listing
			quizzes := protected.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.GetQuizzes)
				quizzes.POST("", quizHandler.CreateQuiz)
				quizzes.POST("/:id/play", playHandler.StartPlay)
				quizzes.POST("/:id/results", resultHandler.SaveResult)
			}
			protected.GET("/my/quizzes", quizHandler.GetMyQuizzes)

			// Play sessions
			play := protected.Group("/play")
			{
				play.GET("/:id", playHandler.GetPlay)
				play.POST("/:id/select", playHandler.SelectAnswer)
				play.POST("/:id/next", playHandler.NextQuestion)
				play.POST("/:id/previous", playHandler.PreviousQuestion)
			}

			// Result history
			results := protected.Group("/results")
			{
				results.GET("", resultHandler.GetMyResults)
				results.GET("/:id", resultHandler.GetResult)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Page requests go through the route gate, then fall through to the
	// static frontend when one is configured.
	router.Use(middleware.RouteGate(verifier))
	if staticDir != "" {
		router.NoRoute(servePages(staticDir))
	}
}

func servePages(staticDir string) gin.HandlerFunc {
	fs := http.Dir(staticDir)
	index := filepath.Join(staticDir, "index.html")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if f, err := fs.Open(c.Request.URL.Path); err == nil {
			f.Close()
			http.FileServer(fs).ServeHTTP(c.Writer, c.Request)
			return
		}
		// SPA fallback
		c.File(index)
	}
}
