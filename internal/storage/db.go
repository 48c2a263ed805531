package storage

import (
	"fmt"
	"time"

	"tg-warn/internal/config"
	"tg-warn/internal/logger"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var (
	// DB is the global database connection, nil when the database is disabled
	DB *gorm.DB
)

// Initialize opens the MySQL connection when database support is enabled
func Initialize(cfg *config.Config) error {
	if !cfg.Database.Enabled {
		logger.Info("Database support is disabled")
		return nil
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	logger.Infof("Connecting to database: %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: NewCustomGormLogger(cfg.Logger.Level),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("Database connection established successfully")
	return nil
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}

// Migrate creates or updates every table used by the bot
func Migrate(db *gorm.DB) error {
	if err := NewRecordRepository(db).MigrateTable(); err != nil {
		return fmt.Errorf("failed to migrate moderation records: %w", err)
	}
	if err := NewPendingMsgRepository(db).MigrateTable(); err != nil {
		return fmt.Errorf("failed to migrate pending messages: %w", err)
	}
	return nil
}
