package database

import (
	"fmt"
	"log"
	"time"

	"celestia/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Connect(config Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Настройка пула соединений
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connected successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Включаем расширения
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create uuid extension: %w", err)
	}

	// Автомиграция моделей
	err := db.AutoMigrate(
		&models.KpReading{},
		&models.ISSPosition{},
		&models.LunarSnapshot{},
		&models.AsteroidApproach{},
		&models.Astronaut{},
		&models.WeatherSnapshot{},
		&models.ObservationEntry{},
		&models.Preference{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Создаем индексы
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migration completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	// Индексы для KpReading
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_kp_readings_time_tag ON kp_readings(time_tag DESC)").Error; err != nil {
		return err
	}

	// Индексы для AsteroidApproach
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_asteroid_approaches_date_distance ON asteroid_approaches(approach_date, miss_distance_km)").Error; err != nil {
		return err
	}

	// Индексы для ObservationEntry
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_observation_entries_created_at ON observation_entries(created_at DESC)").Error; err != nil {
		return err
	}

	return nil
}
