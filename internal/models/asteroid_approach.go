package models

import (
	"time"

	"gorm.io/datatypes"
)

type AsteroidApproach struct {
	// ID — синтетический ключ: neo_id + "_" + дата сближения
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	NeoID          string         `gorm:"not null;index" json:"neo_id"`
	Name           string         `gorm:"type:text;not null" json:"name"`
	ApproachDate   string         `gorm:"type:varchar(10);not null;index" json:"approach_date"`
	MissDistanceKm float64        `gorm:"not null" json:"miss_distance_km"`
	MissDistanceAU float64        `gorm:"not null" json:"miss_distance_au"`
	VelocityKmh    float64        `gorm:"not null" json:"velocity_kmh"`
	DiameterMinM   float64        `json:"diameter_min_m"`
	DiameterMaxM   float64        `json:"diameter_max_m"`
	IsHazardous    bool           `gorm:"not null;index" json:"is_hazardous"`
	Raw            datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"-"`
}
