// Package router maps the HTTP surface onto handlers and middleware.
// Three tiers: open public routes, rate-limited public mutations and
// the JWT-protected ADMIN group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/atelierhq/workshop-studio/internal/config"
	"github.com/atelierhq/workshop-studio/internal/handler"
	"github.com/atelierhq/workshop-studio/internal/middleware"
	"github.com/atelierhq/workshop-studio/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Enrollments   *handler.EnrollmentHandler
	Catalog       *handler.CatalogHandler
	Checkout      *handler.CheckoutHandler
	Contact       *handler.ContactHandler
	AdminWorkshop *handler.AdminWorkshopHandler
	AdminCustomer *handler.AdminCustomerHandler
	AdminStore    *handler.AdminStoreHandler
}

// Register mounts all routes.  rdb may be nil, in which case the
// cache and rate-limit middleware pass requests straight through.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	cache := middleware.CacheJSON(config.LoadCacheConfig(), rdb)

	// Public catalog, cached.
	e.GET("/v1/workshops", h.Catalog.ListWorkshops, cache)
	e.GET("/v1/workshops/:id", h.Catalog.GetWorkshop, cache)
	e.GET("/v1/products", h.Catalog.ListProducts, cache)
	e.GET("/v1/products/:id", h.Catalog.GetProduct, cache)

	// Public mutations, rate limited per client IP.
	e.POST("/v1/enrollments", h.Enrollments.Enroll, limit)
	e.GET("/v1/enrollments/cancel/:token", h.Enrollments.Cancel, limit)
	e.POST("/v1/orders", h.Checkout.CreateOrder, limit)
	e.POST("/v1/contact", h.Contact.Submit, limit)

	// Account endpoints.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register, limit)
	auth.POST("/login", h.Auth.Login, limit)
	auth.POST("/forgot-password", h.Auth.Forgot, limit)
	auth.POST("/reset-password", h.Auth.Reset, limit)
	auth.GET("/verify/:token", h.Auth.Verify, limit)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(cfg.JWTSecret))
	me.GET("/me", h.Auth.Me)

	// Staff surface: valid JWT with the ADMIN role.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))

	admin.GET("/dashboard", h.AdminStore.Dashboard)

	admin.GET("/workshops", h.AdminWorkshop.List)
	admin.POST("/workshops", h.AdminWorkshop.Create)
	admin.GET("/workshops/:id", h.AdminWorkshop.Get)
	admin.PUT("/workshops/:id", h.AdminWorkshop.Update)
	admin.DELETE("/workshops/:id", h.AdminWorkshop.Delete)

	admin.GET("/customers", h.AdminCustomer.Search)
	admin.GET("/customers/:id", h.AdminCustomer.Get)
	admin.PUT("/customers/:id", h.AdminCustomer.Update)
	admin.GET("/customers/:id/history", h.AdminCustomer.History)
	admin.GET("/customers/:id/notes", h.AdminCustomer.ListNotes)
	admin.POST("/customers/:id/notes", h.AdminCustomer.AddNote)

	admin.GET("/products", h.AdminStore.ListProducts)
	admin.POST("/products", h.AdminStore.CreateProduct)
	admin.PUT("/products/:id", h.AdminStore.UpdateProduct)
	admin.DELETE("/products/:id", h.AdminStore.DeleteProduct)

	admin.GET("/orders", h.AdminStore.ListOrders)
	admin.GET("/messages", h.AdminStore.ListMessages)
	admin.PUT("/messages/:id/read", h.AdminStore.MarkMessageRead)
}
