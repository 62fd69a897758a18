package main

import (
	"context"
	"fmt"
	"os"

	"github.com/casalabia/realtor-backend/internal/ai"
	"github.com/casalabia/realtor-backend/internal/clients/openai"
	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/db"
	"github.com/casalabia/realtor-backend/internal/handlers"
	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/middleware"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/server"
	"github.com/casalabia/realtor-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg := config.Load(log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	sessionRepo := repos.NewSessionRepo(thePG, log)
	listingRepo := repos.NewListingRepo(thePG, log)
	photoRepo := repos.NewPhotoRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	sessionService := services.NewSessionService(sessionRepo, cfg.Session, log)
	authService := services.NewAuthService(userRepo, sessionService, log)
	listingService := services.NewListingService(listingRepo, log)

	bucketService, err := services.NewBucketService(cfg.Media, log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}
	imageService := services.NewImageService(cfg.Media, log)
	photoService := services.NewPhotoService(photoRepo, listingRepo, bucketService, imageService, cfg.Media, log)

	openaiClient, err := openai.NewClient(cfg.AI, log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	draftGenerator := ai.NewGenerator(openaiClient, cfg.AI, log)

	// Background workers
	sessionCleanup := services.NewSessionCleanupWorker(sessionRepo, log)
	sessionCleanup.Start(context.Background())
	defer sessionCleanup.Stop()
	defer photoService.Wait()

	// Handlers
	log.Info("Setting up handlers from main...")
	systemHandler := handlers.NewSystemHandler(cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg.Session, log)
	listingHandler := handlers.NewListingHandler(listingService, draftGenerator, log)
	photoHandler := handlers.NewPhotoHandler(photoService, log)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(sessionService, userRepo, cfg.Session, log)
	aiRateLimiter := middleware.NewRateLimiter(cfg.AI.RequestsPerMin, log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		App:            cfg.App,
		SystemHandler:  systemHandler,
		AuthHandler:    authHandler,
		ListingHandler: listingHandler,
		PhotoHandler:   photoHandler,
		AuthMiddleware: authMiddleware,
		AIRateLimiter:  aiRateLimiter,
	})

	fmt.Printf("Server listening on :%s\n", cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
