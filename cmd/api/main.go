package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/odhiambo/posflow/internal/application/service"
	"github.com/odhiambo/posflow/internal/config"
	"github.com/odhiambo/posflow/internal/domain/event"
	"github.com/odhiambo/posflow/internal/infrastructure/database"
	"github.com/odhiambo/posflow/internal/infrastructure/einvoice"
	"github.com/odhiambo/posflow/internal/infrastructure/eventbus"
	"github.com/odhiambo/posflow/internal/infrastructure/repository"
	"github.com/odhiambo/posflow/internal/presentation/http/handler"
	"github.com/odhiambo/posflow/internal/presentation/http/routes"
	"github.com/odhiambo/posflow/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Event bus: Redis pub/sub when configured, otherwise in-process
	var bus event.Bus
	if cfg.Redis.Enabled {
		bus = eventbus.NewRedisBus(eventbus.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password))
	} else {
		bus = eventbus.NewMemoryBus()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	paymentRepo := repository.NewPaymentAttemptRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// E-invoice provider, nil when no gateway is configured; the invoice
	// service degrades every publish to a draft in that case.
	var provider service.InvoiceProvider
	if cfg.Invoice.ProviderBaseURL != "" {
		provider = einvoice.NewHTTPProvider(cfg.Invoice.ProviderBaseURL, cfg.Invoice.ProviderAPIKey)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	tableService := service.NewTableService(tableRepo, orderRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, provider, bus, cfg.Invoice.PublishTimeout)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, tableRepo, settingsRepo, paymentRepo, bus)
	paymentService := service.NewPaymentService(orderRepo, paymentRepo, settingsRepo, invoiceService, bus)

	// Background retry loop for draft invoices
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go invoiceService.StartDraftWorker(ctx, cfg.Invoice.DraftInterval)

	// Initialize handlers
	h := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Order:    handler.NewOrderHandler(orderService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Invoice:  handler.NewInvoiceHandler(invoiceService, orderService),
		Table:    handler.NewTableHandler(tableService),
		Settings: handler.NewSettingsHandler(settingsService),
	}

	router := routes.Setup(h, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	log.Printf("Starting %s on port %s", cfg.App.Name, cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
