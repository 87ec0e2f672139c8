package controller

import (
	"net/http"
	"time"

	"order-tracking-service/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	AdminAPIKey    string
}

// NewRouter arma todas las rutas del servicio.
func NewRouter(cfg RouterConfig, orders *OrderController, auth *AuthController, resolver middleware.TokenResolver) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.AdminKeyHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rutas públicas
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/token/refresh", auth.Refresh)
	r.GET("/orders/:tracking_id", orders.GetOrder)

	// Rutas protegidas (requieren token)
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(resolver))
	authed.POST("/orders", orders.CreateOrder)
	authed.GET("/orders", orders.GetMyOrders)
	authed.PUT("/orders/:tracking_id/cancel", orders.CancelOrder)

	// Rutas admin
	admin := r.Group("/")
	admin.Use(middleware.AdminOnly(cfg.AdminAPIKey))
	admin.PUT("/orders/:tracking_id/update", orders.UpdateOrder)
	admin.DELETE("/orders/:tracking_id/delete", orders.DeleteOrder)

	return r
}
