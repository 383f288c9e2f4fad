package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		DB       int
	}
	Sources struct {
		KpURL      string
		ISSURL     string
		MoonURL    string
		MoonKey    string
		NeoURL     string
		NASAAPIKey string
		AstrosURL  string
		WeatherURL string
		WeatherKey string
	}
	Workers struct {
		SpaceEnabled  bool
		FeedEnabled   bool
		AlertEnabled  bool
		SpaceInterval time.Duration
		FeedInterval  time.Duration
		AlertInterval time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
	Journal struct {
		ExportDir string
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "celestia")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Redis
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Внешние источники данных
	cfg.Sources.KpURL = getEnv("NOAA_KP_URL", "https://services.swpc.noaa.gov/json/planetary_k_index_1m.json")
	cfg.Sources.ISSURL = getEnv("ISS_URL", "https://api.wheretheiss.at/v1/satellites/25544")
	cfg.Sources.MoonURL = getEnv("MOON_URL", "https://api.ipgeolocation.io/astronomy")
	cfg.Sources.MoonKey = getEnv("MOON_API_KEY", "")
	cfg.Sources.NeoURL = getEnv("NASA_NEO_URL", "https://api.nasa.gov/neo/rest/v1/feed")
	cfg.Sources.NASAAPIKey = getEnv("NASA_API_KEY", "DEMO_KEY")
	cfg.Sources.AstrosURL = getEnv("ASTROS_URL", "http://api.open-notify.org/astros.json")
	cfg.Sources.WeatherURL = getEnv("WEATHER_URL", "https://api.openweathermap.org/data/2.5/weather")
	cfg.Sources.WeatherKey = getEnv("WEATHER_API_KEY", "")

	// Workers
	cfg.Workers.SpaceEnabled = getEnvAsBool("SPACE_WORKER_ENABLED", true)
	cfg.Workers.FeedEnabled = getEnvAsBool("FEED_WORKER_ENABLED", true)
	cfg.Workers.AlertEnabled = getEnvAsBool("ALERT_WORKER_ENABLED", true)
	cfg.Workers.SpaceInterval = getEnvAsDuration("WORKER_SPACE_INTERVAL", 120*time.Second)
	cfg.Workers.FeedInterval = getEnvAsDuration("WORKER_FEED_INTERVAL", 3600*time.Second)
	cfg.Workers.AlertInterval = getEnvAsDuration("WORKER_ALERT_INTERVAL", 15*time.Minute)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	// Journal
	cfg.Journal.ExportDir = getEnv("JOURNAL_EXPORT_DIR", "./data/journal")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
