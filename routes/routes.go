package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/controllers"
	"github.com/microblog-hq/api-go/mail"
	"github.com/microblog-hq/api-go/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, mailer *mail.Mailer, rdb *redis.Client) {
	// Initialize controllers
	authController := controllers.NewAuthController(db, cfg, mailer)
	userController := controllers.NewUserController(db, rdb)
	postController := controllers.NewPostController(db)
	feedController := controllers.NewFeedController(db)
	interactionController := controllers.NewInteractionController(db)
	uploadController := controllers.NewUploadController(db, cfg.Storage)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login",
			middleware.RateLimit(rdb, 10, time.Minute, "login"),
			authController.Login)
		public.POST("/reset-password",
			middleware.RateLimit(rdb, 5, time.Minute, "reset"),
			authController.RequestPasswordReset)
		public.POST("/reset-password/confirm", authController.ResetPassword)
		public.POST("/auth/google", authController.GoogleLogin)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware(db, cfg.JWTSecret))
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		SetupUserRoutes(protected, userController)
		SetupPostRoutes(protected, postController)
		SetupFeedRoutes(protected, feedController)
		SetupInteractionRoutes(protected, interactionController)
		SetupUploadRoutes(protected, uploadController)
	}
}
