package main

import (
	"fmt"
	"log"
	"net/http"

	"campusmatch/backend/internal/auth"
	"campusmatch/backend/internal/config"
	"campusmatch/backend/internal/database"
	"campusmatch/backend/internal/handler"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "campusmatch/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           CampusMatch API
// @version         1.0
// @description     This is the API for the CampusMatch service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", handler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/me/friends", handler.GetFriends)
			userRoutes.GET("/me/requests", handler.GetIncomingRequests)
			userRoutes.GET("/me/events", handler.StreamEvents)
			userRoutes.GET("/:id", handler.GetUserByID)
			userRoutes.GET("/:id/relationship", handler.GetRelationship)

			// Friendship routes
			userRoutes.POST("/:id/request", handler.SendRequest)
			userRoutes.POST("/:id/accept", handler.AcceptRequest)
			userRoutes.POST("/:id/decline", handler.DeclineRequest)
			userRoutes.POST("/:id/cancel", handler.CancelRequest)
		}

		// Public preview: full suggestions when a valid token is sent,
		// a teaser of recent profiles otherwise.
		apiV1.GET("/discover/preview", auth.OptionalAuthMiddleware(), handler.DiscoverPreview)

		// Discovery routes (protected)
		discoverRoutes := apiV1.Group("/discover")
		discoverRoutes.Use(auth.AuthMiddleware())
		{
			discoverRoutes.GET("", handler.Discover)
			discoverRoutes.GET("/search", handler.SearchByUsername)
		}

		// Interest routes (protected)
		interestRoutes := apiV1.Group("/interests")
		interestRoutes.Use(auth.AuthMiddleware())
		{
			interestRoutes.GET("", handler.GetInterests)
			interestRoutes.POST("/:id/toggle", handler.ToggleInterest)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			// Interest catalog CRUD
			interests := adminRoutes.Group("/interests")
			{
				interests.POST("", handler.CreateInterest)
				interests.PUT("/:id", handler.UpdateInterest)
				interests.DELETE("/:id", handler.DeleteInterest)
			}
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
