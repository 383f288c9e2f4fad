package models

import (
	"time"

	"github.com/google/uuid"
)

// ObservationEntry — запись журнала наблюдений, создается только пользователем
type ObservationEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Notes     string    `gorm:"type:text;not null" json:"notes"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`

	// Снимок условий на момент наблюдения (опционально)
	KpAtCapture          *float64 `json:"kp_at_capture,omitempty"`
	ISSDistanceAtCapture *float64 `json:"iss_distance_at_capture,omitempty"`
	TemperatureAtCapture *float64 `json:"temperature_at_capture,omitempty"`

	PhotoURL  string    `gorm:"type:text" json:"photo_url,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
