package client

import (
	"log"
	"time"

	"elixa-backend/internal/config"
	"elixa-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func InitDBClient(cfg *config.Database) *gorm.DB {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		dialector = mysql.Open(cfg.URL)
	}

	// TranslateError so duplicate-key violations surface as
	// gorm.ErrDuplicatedKey on both drivers
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Payment{},
		&model.Order{},
		&model.OrderItem{},
		&model.Contact{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
