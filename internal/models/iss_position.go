package models

import (
	"time"
)

// SingletonID — фиксированный ключ для одиночных записей (позиция МКС, луна, погода)
const SingletonID uint = 1

type ISSPosition struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	AltitudeKm  float64   `gorm:"not null" json:"altitude_km"`
	VelocityKmh float64   `gorm:"not null" json:"velocity_kmh"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
