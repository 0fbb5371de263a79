package config

import (
	"errors"
	"os"
	"time"

	"github.com/mentormatch/matching/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var PostgresDB *gorm.DB

func InitPostgres() error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Connection Pooling settings
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Schema is owned by the import pipeline in production; dev and CI
	// environments can opt in to creating it here.
	if os.Getenv("POSTGRES_AUTO_MIGRATE") == "true" {
		err = db.AutoMigrate(
			&models.User{},
			&models.StudentProfile{},
			&models.SupervisorProfile{},
			&models.Topic{},
			&models.Role{},
		)
		if err != nil {
			return err
		}
	}

	PostgresDB = db
	return nil
}
