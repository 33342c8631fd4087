package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kasirpro/pos-api/internal/config"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	domainRepo "github.com/kasirpro/pos-api/internal/domain/repository"
	"github.com/kasirpro/pos-api/internal/presentation/http/handler"
	"github.com/kasirpro/pos-api/internal/presentation/http/middleware"
	"github.com/kasirpro/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Purchase *handler.PurchaseHandler
	Customer *handler.CustomerHandler
	Supplier *handler.SupplierHandler
	Report   *handler.ReportHandler
	User     *handler.UserHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: deps.Cfg.RateLimit.RequestsPerSecond,
			BurstSize:         deps.Cfg.RateLimit.BurstSize,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)

	registerProductRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerCartRoutes(protected, h, deps)
	registerOrderRoutes(protected, h)
	registerPurchaseRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerSupplierRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerUserRoutes(protected, h)
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)

		// Catalog and stock edits are supervisor/admin territory
		manage := products.Group("")
		manage.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor))
		{
			manage.POST("", h.Product.Create)
			manage.PUT("/:id", h.Product.Update)
			manage.DELETE("/:id", h.Product.Delete)
			manage.POST("/:id/stock-adjustment", h.Product.AdjustStock)
		}
	}

	protected.GET("/stock-movements", h.Product.ListStockMovements)
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)

		manage := categories.Group("")
		manage.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor))
		{
			manage.POST("", h.Category.Create)
			manage.PUT("/:id", h.Category.Update)
			manage.DELETE("/:id", h.Category.Delete)
		}
	}
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:index", h.Cart.UpdateItem)
		cart.DELETE("/items/:index", h.Cart.RemoveItem)
		cart.PUT("/discount", h.Cart.SetDiscount)
		cart.PUT("/customer", h.Cart.SetCustomer)

		// Settlement replays on a repeated Idempotency-Key so a retried
		// request cannot debit stock twice
		cart.POST("/settle", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Order.Settle)
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/void",
			middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor),
			h.Order.Void)
	}
}

func registerPurchaseRoutes(protected *gin.RouterGroup, h *Handlers) {
	purchases := protected.Group("/purchases")
	purchases.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor))
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", h.Purchase.Receive)
		purchases.GET("/:id", h.Purchase.Get)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.GET("/lookup", h.Customer.Lookup)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.POST("/:id/enroll", h.Customer.EnrollMember)
		customers.DELETE("/:id",
			middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor),
			h.Customer.Delete)
	}
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/today", h.Report.Today)
		reports.GET("/range",
			middleware.RequireRole(entity.RoleAdmin, entity.RoleSupervisor),
			h.Report.Range)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
}
