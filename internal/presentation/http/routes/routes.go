package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/odhiambo/posflow/internal/config"
	domainRepo "github.com/odhiambo/posflow/internal/domain/repository"
	"github.com/odhiambo/posflow/internal/presentation/http/handler"
	"github.com/odhiambo/posflow/internal/presentation/http/middleware"
	"github.com/odhiambo/posflow/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Invoice  *handler.InvoiceHandler
	Table    *handler.TableHandler
	Settings *handler.SettingsHandler
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
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Payment gateway callback. Authenticated by correlation id lookup,
		// not by JWT; the gateway cannot hold a user token.
		v1.POST("/payments/webhook", h.Payment.GatewayWebhook)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile and account management
	protected.GET("/profile", h.Auth.GetProfile)
	protected.POST("/auth/register", middleware.RequireRole("admin"), h.Auth.Register)

	// Idempotency applies to the write endpoints a cashier terminal retries.
	idem := middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo})

	// Orders
	orders := protected.Group("/orders")
	{
		orders.POST("/preview", h.Order.Preview)
		orders.POST("", idem, h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.GET("/:id/receipt", h.Order.Receipt)

		// Payment completion and history
		orders.POST("/:id/payment", idem, h.Payment.Complete)
		orders.POST("/:id/payment/fail", h.Payment.Fail)
		orders.GET("/:id/payments", h.Payment.ListAttempts)

		// E-invoice per order
		orders.GET("/:id/invoice", h.Invoice.GetByOrder)
		orders.POST("/:id/invoice", h.Invoice.Issue)
	}

	// Draft invoice retry
	protected.POST("/invoices/:id/retry", h.Invoice.Retry)

	// Catalog
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireRole("admin"), h.Product.Create)
		products.PUT("/:id", middleware.RequireRole("admin"), h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole("admin"), h.Product.Delete)
	}

	// Floor plan
	tables := protected.Group("/tables")
	{
		tables.GET("", h.Table.List)
		tables.GET("/:id", h.Table.Get)
		tables.POST("", middleware.RequireRole("admin"), h.Table.Create)
		tables.DELETE("/:id", middleware.RequireRole("admin"), h.Table.Delete)
	}

	// Store settings
	settings := protected.Group("/settings")
	{
		settings.GET("", h.Settings.Get)
		settings.PUT("", middleware.RequireRole("admin"), h.Settings.Update)
	}
}
