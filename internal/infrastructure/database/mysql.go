package database

import (
	"fmt"
	"log/slog"
	"time"

	"sealedauction/internal/config"
	"sealedauction/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitMySQL opens the pool, applies connection limits, and auto-migrates
// every table the core owns.
func InitMySQL(cfg *config.MySQLConfig) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		slog.Error("mysql connect failed", "err", err)
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("mysql underlying db unavailable", "err", err)
		panic(err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&model.User{},
		&model.LedgerEntry{},
		&model.Auction{},
		&model.Bid{},
		&model.Winner{},
		&model.OutboxMessage{},
	)
	if err != nil {
		slog.Error("automigrate failed", "err", err)
		panic(err)
	}

	DB = db
	slog.Info("mysql connected", "host", cfg.Host, "database", cfg.Database)
	return db
}
