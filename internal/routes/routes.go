// Package routes defines HTTP routes for the records API.
package routes

import (
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/config"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/handlers"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/middleware"
	"github.com/franciscoruiz85/DWFS-C18-proyecto6/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles the handler set wired by Setup.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Users    *handlers.UsersHandler
	Products *handlers.ProductsHandler
	Health   *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, cfg *config.Config, jwtService service.JWTService, metrics *middleware.Metrics, h Handlers) {
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	if metrics != nil {
		router.Use(metrics.Handler())
	}
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(middleware.ValidateOrigin(middleware.OriginConfig{
			AllowedOrigins: cfg.AllowedOrigins,
		}))
	}

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.RequireAuth(jwtService)

	users := router.Group("/api/users")
	{
		users.POST("/create", h.Auth.Register)
		users.POST("/login", h.Auth.Login)
		users.GET("/verify-user", auth, h.Auth.Verify)
		users.GET("", h.Users.List)
		users.PUT("/:id", auth, h.Users.Update)
		users.DELETE("/:id", auth, h.Users.Delete)
	}

	products := router.Group("/api/products")
	{
		products.POST("", auth, h.Products.Create)
		products.GET("", h.Products.List)
		products.PUT("/:id", auth, h.Products.Update)
		products.DELETE("/:id", auth, h.Products.Delete)
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Content-Type", "Authorization"}
	if len(allowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = allowedOrigins
	c.AllowCredentials = true
	return c
}
