package models

import (
	"time"
)

type KpReading struct {
	TimeTag     time.Time `gorm:"primaryKey" json:"time_tag"`
	Kp          float64   `gorm:"type:numeric(4,2);not null" json:"kp"`
	EstimatedKp float64   `gorm:"type:numeric(5,3);not null" json:"estimated_kp"`
	Category    string    `gorm:"type:varchar(30);not null" json:"category"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
}

// KpCategory вычисляет текстовую категорию по значению индекса
func KpCategory(kp float64) string {
	switch {
	case kp < 4:
		return "quiet"
	case kp < 5:
		return "active"
	case kp < 6:
		return "minor storm"
	case kp < 7:
		return "moderate storm"
	case kp < 8:
		return "strong storm"
	default:
		return "severe storm"
	}
}
