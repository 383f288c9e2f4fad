package models

import (
	"time"
)

type WeatherSnapshot struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Temperature float64   `gorm:"type:numeric(6,2)" json:"temperature"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	CloudCover  int       `json:"cloud_cover"`
	WindSpeed   float64   `json:"wind_speed"`
	Condition   string    `gorm:"type:varchar(50)" json:"condition"`
	Description string    `gorm:"type:varchar(200)" json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
