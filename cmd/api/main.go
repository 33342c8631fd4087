package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kasirpro/pos-api/internal/application/service"
	"github.com/kasirpro/pos-api/internal/config"
	"github.com/kasirpro/pos-api/internal/domain/checkout"
	"github.com/kasirpro/pos-api/internal/infrastructure/database"
	"github.com/kasirpro/pos-api/internal/infrastructure/repository"
	"github.com/kasirpro/pos-api/internal/presentation/http/handler"
	"github.com/kasirpro/pos-api/internal/presentation/http/routes"
	"github.com/kasirpro/pos-api/pkg/logger"
	"github.com/kasirpro/pos-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.App.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Get().Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Get().Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.SeedDefaultData(db); err != nil {
		logger.Get().Warn("failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Services
	settings := cfg.POS.CheckoutSettings()
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo, categoryRepo, movementRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	cartService := service.NewCartService(productRepo, customerRepo, settings)
	checkoutService := service.NewCheckoutService(
		cartService, orderRepo, productRepo, customerRepo,
		settings, checkout.DefaultTierBands(),
	)
	purchaseService := service.NewPurchaseService(purchaseRepo, productRepo, supplierRepo)
	customerService := service.NewCustomerService(customerRepo)
	reportService := service.NewReportService(orderRepo, productRepo)
	userService := service.NewUserService(userRepo)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Cart:     handler.NewCartHandler(cartService),
		Order:    handler.NewOrderHandler(checkoutService, userService),
		Purchase: handler.NewPurchaseHandler(purchaseService),
		Customer: handler.NewCustomerHandler(customerService),
		Supplier: handler.NewSupplierHandler(purchaseService),
		Report:   handler.NewReportHandler(reportService),
		User:     handler.NewUserHandler(userService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Get().Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Get().Error("forced shutdown", zap.Error(err))
	}
}
