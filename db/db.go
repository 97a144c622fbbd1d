package db

import (
	"fmt"

	"tene-backend/models"
	"tene-backend/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection and runs the schema migration. The
// handle is owned by main and injected into the handlers; nothing in this
// package keeps global state.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty, set DB_URL")
	}

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migrate(database); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	utils.LogSuccess("Database connection successful")
	return database, nil
}

func migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Novel{},
		&models.Chapter{},
		&models.Comment{},
		&models.Like{},
		&models.Bookmark{},
		&models.ReadingProgress{},
		&models.Subscription{},
		&models.SubscriptionPayment{},
	)
}
