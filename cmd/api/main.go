package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/server"
	"github.com/foodgram/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	var imageStore service.ImageStore
	s3Config, err := config.NewS3Config(context.Background(), cfg.S3Bucket)
	if err != nil {
		log.Printf("S3 unavailable, storing image URLs as-is: %v", err)
	} else {
		imageStore = service.NewImageService(s3Config)
	}

	revoked := service.NewRedisRevocationStore(redisClient)
	authService := service.NewAuthService(db, revoked, cfg.JWTSecret)
	userService := service.NewUserService(db)
	followService := service.NewFollowService(db)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db, imageStore)
	favoriteService := service.NewFavoriteService(db)
	cartService := service.NewCartService(db)

	createLimiter := middleware.NewRecipeCreationRateLimiter(redisClient)

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(authService, userService, followService, cfg.PageSize)
	catalogHandler := api.NewCatalogHandler(catalogService, authService)
	recipeHandler := api.NewRecipeHandler(
		recipeService, favoriteService, cartService, followService,
		userService, authService, createLimiter, cfg.PageSize,
	)

	allowedOrigins := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")
	if os.Getenv("ALLOWED_ORIGINS") == "" {
		allowedOrigins = nil
	}

	engine := router.SetupRouter(authHandler, userHandler, catalogHandler, recipeHandler, allowedOrigins)
	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
