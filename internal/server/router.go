package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/handlers"
	"github.com/casalabia/realtor-backend/internal/middleware"
)

type RouterConfig struct {
	App            config.AppConfig
	SystemHandler  *handlers.SystemHandler
	AuthHandler    *handlers.AuthHandler
	ListingHandler *handlers.ListingHandler
	PhotoHandler   *handlers.PhotoHandler
	AuthMiddleware *middleware.AuthMiddleware
	AIRateLimiter  *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.MaxMultipartMemory = int64(cfg.App.MaxUploadMB) << 20

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/health", cfg.SystemHandler.Health)

	api := router.Group(cfg.App.APIPrefix)
	api.GET("/config", cfg.SystemHandler.ClientConfig)
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	protected.POST("/auth/logout-all", cfg.AuthHandler.LogoutAll)
	protected.GET("/auth/me", cfg.AuthHandler.Me)
	// Listings
	protected.POST("/listings", cfg.ListingHandler.Create)
	protected.GET("/listings", cfg.ListingHandler.List)
	protected.GET("/listings/:id", cfg.ListingHandler.Get)
	protected.PATCH("/listings/:id", cfg.ListingHandler.Update)
	protected.DELETE("/listings/:id", cfg.ListingHandler.Delete)
	// AI draft, throttled per user
	protected.POST("/listings/:id/ai/draft", cfg.AIRateLimiter.Limit(), cfg.ListingHandler.GenerateDraft)
	// Photos
	protected.POST("/listings/:id/photos/uploads", cfg.PhotoHandler.RequestUploads)
	protected.POST("/listings/:id/photos/complete", cfg.PhotoHandler.CompleteUploads)
	protected.GET("/listings/:id/photos", cfg.PhotoHandler.List)
	protected.PATCH("/listings/:id/photos/order", cfg.PhotoHandler.SetOrder)
	protected.PATCH("/listings/:id/photos/:photoId/cover", cfg.PhotoHandler.SetCover)
	protected.DELETE("/listings/:id/photos/:photoId", cfg.PhotoHandler.Delete)
	protected.DELETE("/listings/:id/photos", cfg.PhotoHandler.DeleteAll)

	return router
}
