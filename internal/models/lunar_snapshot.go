package models

import (
	"time"
)

type LunarSnapshot struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	Phase        string    `gorm:"type:varchar(50);not null" json:"phase"`
	Illumination float64   `gorm:"not null" json:"illumination"`
	Moonrise     string    `gorm:"type:varchar(20)" json:"moonrise"`
	Moonset      string    `gorm:"type:varchar(20)" json:"moonset"`
	DistanceKm   float64   `json:"distance_km"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
