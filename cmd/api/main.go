// Package main is the entry point for the records API.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/config"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/handlers"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/middleware"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/models"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/repository"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/routes"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/service"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Structured JSON logs for everything the handlers report
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Initialize database
	db, err := database.Connect(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	jwtService := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if jwtService == nil {
		log.Fatal("SECRET_KEY must be at least 32 bytes")
	}
	authService := service.NewAuthService(userRepo, hasher, jwtService)
	userService := service.NewUserService(userRepo, hasher)
	productService := service.NewProductService(productRepo)

	// Initialize handlers
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService, userService),
		Users:    handlers.NewUsersHandler(userService),
		Products: handlers.NewProductsHandler(productService),
		Health:   handlers.NewHealthHandler(),
	}

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
	routes.Setup(router, cfg, jwtService, metrics, h)

	// Start server
	log.Printf("Starting records API on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
