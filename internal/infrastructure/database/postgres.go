package database

import (
	"fmt"

	"github.com/kasirpro/pos-api/internal/config"
	"github.com/kasirpro/pos-api/internal/domain/entity"
	applog "github.com/kasirpro/pos-api/pkg/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	applog.Get().Info("connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entity.User{},

		// Catalog
		&entity.Category{},
		&entity.Product{},

		// Customers and suppliers
		&entity.Customer{},
		&entity.Supplier{},

		// Sales
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Payment{},

		// Inventory
		&entity.StockMovement{},
		&entity.Purchase{},
		&entity.PurchaseItem{},

		// System
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	applog.Get().Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the initial admin account when one is configured
// and none exists yet
func SeedDefaultData(db *gorm.DB) error {
	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminUsername == "" || adminPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("username = ?", adminUsername).First(&existing).Error; err == nil {
		applog.Get().Info("admin user already exists", zap.String("username", adminUsername))
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if adminName == "" {
		adminName = "Administrator"
	}
	admin := entity.User{
		Username: adminUsername,
		FullName: adminName,
		Password: string(hashedPassword),
		Role:     entity.RoleAdmin,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	applog.Get().Info("admin user created", zap.String("username", adminUsername))
	return nil
}
