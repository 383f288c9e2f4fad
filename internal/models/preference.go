package models

import (
	"time"
)

// Preference — key-value хранилище настроек и состояния алертов
type Preference struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Ключи настроек, которые читает/пишет Alert Evaluator
const (
	PrefKpAlertsEnabled      = "kp_alerts_enabled"
	PrefISSProximityEnabled  = "iss_proximity_enabled"
	PrefUseDeviceLocation    = "use_device_location"
	PrefLastAlertedKp        = "last_alerted_kp"
	PrefLastISSDistanceKm    = "last_iss_distance_km"
	PrefLastProximityAlertMs = "last_iss_proximity_alert_ms"
	PrefHomeLat              = "home_lat"
	PrefHomeLon              = "home_lon"
)
