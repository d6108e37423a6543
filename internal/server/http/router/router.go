package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	pkgAuth "github.com/chowline/chowline/internal/pkg/auth"
	"github.com/chowline/chowline/internal/server/http/handlers"
	"github.com/chowline/chowline/internal/server/http/middleware"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PlatformFacade, gate *pkgAuth.OperatorGate, health HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	catalogHandler := handlers.NewCatalogHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	deliveryHandler := handlers.NewDeliveryHandler(facade)
	notificationHandler := handlers.NewNotificationHandler(facade)

	engine.GET("/health", func(c *gin.Context) {
		if err := health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	users := api.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	me := users.Group("/me")
	me.Use(middleware.AuthRequired(facade))
	me.GET("", authHandler.Profile)
	me.POST("/addresses", authHandler.AddAddress)

	api.GET("/restaurants", catalogHandler.List)
	api.GET("/restaurants/:id", catalogHandler.Get)

	admin := api.Group("/admin")
	admin.Use(middleware.OperatorRequired(gate))
	admin.POST("/restaurants", catalogHandler.Create)
	admin.POST("/restaurants/:id/menu", catalogHandler.AddMenuItem)
	admin.PUT("/restaurants/:id/pricing-rules", catalogHandler.SetPricingRules)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/orders", orderHandler.Place)
	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.GET("/delivery/assignments/:orderID", deliveryHandler.Get)
	authed.GET("/notifications", notificationHandler.List)

	return engine
}
