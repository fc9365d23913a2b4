package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bazaarhq/bazaar-backend/config"
	"github.com/bazaarhq/bazaar-backend/internal/app/controller"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/bazaarhq/bazaar-backend/internal/router"
	"github.com/bazaarhq/bazaar-backend/internal/scheduler"
	"github.com/bazaarhq/bazaar-backend/internal/storage"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"github.com/bazaarhq/bazaar-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Bazaar Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(db.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	profileRepo := repository.NewProfileRepository(db.GetDB())
	itemRepo := repository.NewItemRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	promoRepo := repository.NewPromotionRepository(db.GetDB())

	// Services
	browsingCache := redis.NewBrowsingCache()
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	itemService := service.NewItemService(itemRepo)
	cartService := service.NewCartService(cartRepo, itemRepo)
	promotionService := service.NewPromotionService(promoRepo, itemRepo, userRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, cartRepo, itemRepo, promotionService)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, itemRepo)
	profileService := service.NewProfileService(profileRepo, userRepo, db.GetDB())
	homepageService := service.NewHomepageService(itemRepo, browsingCache)

	// Controllers
	s3Storage := storage.NewS3Storage(&cfg.S3)
	authController := controller.NewAuthController(authService)
	itemController := controller.NewItemController(itemService, reviewService, homepageService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	reviewController := controller.NewReviewController(reviewService)
	profileController := controller.NewProfileController(profileService)
	homepageController := controller.NewHomepageController(homepageService)
	promotionController := controller.NewPromotionController(promotionService)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		itemController,
		cartController,
		orderController,
		reviewController,
		profileController,
		homepageController,
		promotionController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	trendingScheduler := scheduler.NewTrendingScheduler(homepageService)
	if err := trendingScheduler.Start(); err != nil {
		logger.Warn("Trending scheduler could not start", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer trendingScheduler.Stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...", nil)
	logger.Info("Server stopped successfully", nil)
}
