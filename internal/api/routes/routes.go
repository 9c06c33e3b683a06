package routes

import (
	"github.com/emenu-app/emenu-backend/internal/api/handlers"
	"github.com/emenu-app/emenu-backend/internal/api/middleware"
	"github.com/emenu-app/emenu-backend/internal/config"
	"github.com/emenu-app/emenu-backend/internal/services"
	"github.com/emenu-app/emenu-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	validationService := services.NewValidationService(
		cfg.AbstractEmailAPIKey,
		cfg.AbstractPhoneNumberAPIKey,
	)
	emailService := services.NewEmailService(cfg)
	storageService := services.NewStorageService(cfg.AWSRegion, cfg.S3Bucket, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
	authService := services.NewAuthService(db, cfg.JWTSecret, validationService, emailService, cfg.BaseURL)
	structureService := services.NewStructureService(db)
	dishService := services.NewDishService(db)
	menuService := services.NewMenuService(db)
	reviewService := services.NewReviewService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(authService)
	structureHandler := handlers.NewStructureHandler(structureService, menuService, storageService)
	dishHandler := handlers.NewDishHandler(dishService, storageService)
	menuHandler := handlers.NewMenuHandler(menuService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.GET("/profile", middleware.AuthMiddleware(cfg), authHandler.GetProfile)
		auth.PUT("/profile-update", middleware.AuthMiddleware(cfg), authHandler.UpdateProfile)
	}

	// Password reset routes
	passwordGroup := api.Group("/password")
	{
		passwordGroup.POST("/forgot", passwordHandler.ForgotPassword)
		passwordGroup.POST("/reset", passwordHandler.ResetPassword)
		passwordGroup.POST("/change", middleware.AuthMiddleware(cfg), passwordHandler.ChangePassword)
	}

	// Structure routes
	structures := api.Group("/structures")
	{
		structures.GET("/", structureHandler.GetStructures)
		structures.GET("/cities", structureHandler.GetCities)
		structures.GET("/mine", middleware.AuthMiddleware(cfg), structureHandler.GetMyStructure)
		structures.GET("/:structure_id", structureHandler.GetStructure)
		structures.GET("/:structure_id/menus", structureHandler.GetStructureMenus)
		structures.GET("/:structure_id/reviews", reviewHandler.GetStructureReviews)
		structures.POST("/", middleware.AuthMiddleware(cfg), structureHandler.RegisterStructure)
		structures.PUT("/:structure_id", middleware.AuthMiddleware(cfg), structureHandler.UpdateStructure)
		structures.DELETE("/:structure_id", middleware.AuthMiddleware(cfg), structureHandler.DeleteStructure)
		structures.POST("/:structure_id/photo", middleware.AuthMiddleware(cfg), structureHandler.UploadPhoto)
		structures.POST("/:structure_id/reviews", middleware.AuthMiddleware(cfg), reviewHandler.CreateStructureReview)
	}

	// Dish routes
	dishes := api.Group("/dishes")
	{
		dishes.GET("/", dishHandler.GetDishes)
		dishes.GET("/categories", dishHandler.GetCategories)
		dishes.GET("/mine", middleware.AuthMiddleware(cfg), dishHandler.GetMyDishes)
		dishes.GET("/:dish_id", dishHandler.GetDish)
		dishes.GET("/:dish_id/quote", dishHandler.GetDishQuote)
		dishes.GET("/:dish_id/reviews", reviewHandler.GetDishReviews)
		dishes.POST("/", middleware.AuthMiddleware(cfg), dishHandler.CreateDish)
		dishes.PUT("/:dish_id", middleware.AuthMiddleware(cfg), dishHandler.UpdateDish)
		dishes.DELETE("/:dish_id", middleware.AuthMiddleware(cfg), dishHandler.DeleteDish)
		dishes.POST("/:dish_id/photo", middleware.AuthMiddleware(cfg), dishHandler.UploadPhoto)
		dishes.POST("/:dish_id/reviews", middleware.AuthMiddleware(cfg), reviewHandler.CreateDishReview)
	}

	// Menu routes (owner-scoped except detail)
	menus := api.Group("/menus")
	{
		menus.GET("/mine", middleware.AuthMiddleware(cfg), menuHandler.GetMyMenus)
		menus.GET("/:menu_id", menuHandler.GetMenu)
		menus.POST("/", middleware.AuthMiddleware(cfg), middleware.StructureOwnerOnly(), menuHandler.CreateMenu)
		menus.PUT("/:menu_id", middleware.AuthMiddleware(cfg), menuHandler.UpdateMenu)
		menus.DELETE("/:menu_id", middleware.AuthMiddleware(cfg), menuHandler.DeleteMenu)
		menus.POST("/:menu_id/dishes/:dish_id", middleware.AuthMiddleware(cfg), menuHandler.AttachDish)
		menus.DELETE("/:menu_id/dishes/:dish_id", middleware.AuthMiddleware(cfg), menuHandler.DetachDish)
	}

	// Review routes
	reviews := api.Group("/reviews", middleware.AuthMiddleware(cfg))
	{
		reviews.GET("/mine", reviewHandler.GetMyReviews)
		reviews.PUT("/:review_id", reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", reviewHandler.DeleteReview)
		reviews.POST("/:review_id/flag", reviewHandler.FlagReview)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	{
		admin.GET("/reviews/flagged", reviewHandler.GetFlaggedReviews)
		admin.POST("/reviews/:review_id/moderate", reviewHandler.ModerateReview)
	}

	logger.Info("Routes initialized successfully")
}
