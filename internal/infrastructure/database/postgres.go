package database

import (
	"fmt"
	"log"

	"github.com/odhiambo/posflow/internal/config"
	"github.com/odhiambo/posflow/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

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

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.Table{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.PaymentAttempt{},
		&entity.Invoice{},
		&entity.StoreSettings{},
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// At most one succeeded attempt per order.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_attempts_one_success
		ON payment_attempts (order_id) WHERE status = 'succeeded'`).Error
	if err != nil {
		return fmt.Errorf("failed to create payment attempt index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (settings, admin user, tables)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	var settingsCount int64
	db.Model(&entity.StoreSettings{}).Count(&settingsCount)
	if settingsCount == 0 {
		settings := entity.StoreSettings{
			StoreName:             viper.GetString("STORE_NAME"),
			Currency:              viper.GetString("STORE_CURRENCY"),
			PriceIncludesTax:      viper.GetBool("STORE_PRICE_INCLUDES_TAX"),
			DefaultTaxRatePercent: viper.GetFloat64("STORE_DEFAULT_TAX_RATE"),
		}
		if settings.StoreName == "" {
			settings.StoreName = "posflow"
		}
		if settings.Currency == "" {
			settings.Currency = "VND"
		}
		if err := db.Create(&settings).Error; err != nil {
			log.Printf("Warning: failed to seed store settings: %v", err)
		}
	}

	// Seed a handful of tables for dine-in if none exist
	var tableCount int64
	db.Model(&entity.Table{}).Count(&tableCount)
	if tableCount == 0 {
		for n := 1; n <= 8; n++ {
			if err := db.Create(&entity.Table{Number: n, Seats: 4}).Error; err != nil {
				log.Printf("Warning: failed to seed table %d: %v", n, err)
			}
		}
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")

	if adminEmail != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("email = ?", adminEmail).First(&existing).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				admin := entity.User{
					FirstName: "Store",
					LastName:  "Admin",
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      "admin",
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
