// Package router wires handlers and middleware into the HTTP surface.
package router

import (
	"net/http"

	"fashion-shop/internal/handler"
	"fashion-shop/internal/middleware"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"
	"fashion-shop/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers bundles every endpoint group for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Admin    *handler.AdminHandler
}

// Config carries the router's non-handler dependencies.
type Config struct {
	Tokens    *token.Manager
	UserRepo  repository.UserRepository
	Logger    zerolog.Logger
	UploadDir string // served at /uploads when set (local image store)
}

// New creates the HTTP engine with all routes and middleware configured.
func New(h Handlers, cfg Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	authed := middleware.Auth(cfg.Tokens, cfg.UserRepo, cfg.Logger)
	staff := middleware.RequireRole(model.RoleModerator, model.RoleAdmin)
	admin := middleware.RequireRole(model.RoleAdmin)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh-token", h.Auth.Refresh)
		auth.POST("/logout", authed, h.Auth.Logout)
		auth.GET("/me", authed, h.Auth.Me)
		auth.PUT("/me", authed, h.Auth.UpdateProfile)
		auth.PUT("/me/avatar", authed, h.Auth.UpdateAvatar)
		auth.PUT("/password", authed, h.Auth.ChangePassword)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", authed, staff, h.Product.Create)
		products.PUT("/:id", authed, staff, h.Product.Update)
		products.DELETE("/:id", authed, staff, h.Product.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.POST("", authed, staff, h.Category.Create)
		categories.PUT("/:id", authed, staff, h.Category.Update)
		categories.DELETE("/:id", authed, staff, h.Category.Delete)
	}

	cart := api.Group("/cart", authed)
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/add", h.Cart.AddItem)
		cart.PUT("/update/:id", h.Cart.UpdateItem)
		cart.DELETE("/remove/:id", h.Cart.RemoveItem)
		cart.DELETE("/clear", h.Cart.Clear)
	}

	orders := api.Group("/orders", authed)
	{
		orders.POST("", h.Order.Checkout)
		orders.GET("", h.Order.ListMine)
		orders.GET("/:id", h.Order.GetMine)
		orders.PUT("/:id/cancel", h.Order.Cancel)
	}

	adminGroup := api.Group("/admin", authed, admin)
	{
		adminGroup.GET("/orders", h.Order.List)
		adminGroup.GET("/orders/:id", h.Order.Get)
		adminGroup.PUT("/orders/:id/status", h.Order.SetStatus)

		adminGroup.GET("/users", h.User.List)
		adminGroup.GET("/users/:id", h.User.Get)
		adminGroup.PUT("/users/:id/roles", h.User.SetRoles)
		adminGroup.PUT("/users/:id/active", h.User.SetActive)
		adminGroup.DELETE("/users/:id", h.User.Delete)

		adminGroup.GET("/dashboard", h.Admin.Dashboard)
		adminGroup.GET("/statistics", h.Admin.Statistics)
	}

	return r
}
