package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"celestia/internal/clients"
	"celestia/internal/models"
	"celestia/internal/repository"
)

type WeatherService interface {
	RefreshSnapshot(ctx context.Context) error
	GetSnapshot(ctx context.Context) (*models.WeatherSnapshot, error)
}

type weatherService struct {
	repo      repository.WeatherRepository
	prefsRepo repository.PreferenceRepository
	cacheRepo repository.CacheRepository
	client    clients.WeatherClient
}

func NewWeatherService(
	repo repository.WeatherRepository,
	prefsRepo repository.PreferenceRepository,
	cacheRepo repository.CacheRepository,
	client clients.WeatherClient,
) WeatherService {
	return &weatherService{
		repo:      repo,
		prefsRepo: prefsRepo,
		cacheRepo: cacheRepo,
		client:    client,
	}
}

func (s *weatherService) RefreshSnapshot(ctx context.Context) error {
	lockKey := "weather:last_fetch"
	if cached, err := s.cacheRepo.Get(ctx, lockKey); err == nil && cached != "" {
		return nil // Уже обновляли недавно
	}

	// Погода для домашней локации пользователя
	lat, _ := s.prefsRepo.GetFloat(ctx, models.PrefHomeLat, 0)
	lon, _ := s.prefsRepo.GetFloat(ctx, models.PrefHomeLon, 0)

	log.Println("Fetching current weather...")

	record, err := s.client.GetCurrent(ctx, lat, lon)
	if err != nil {
		return fmt.Errorf("failed to fetch weather: %w", err)
	}

	snapshot := &models.WeatherSnapshot{
		Temperature: record.Main.Temp,
		Humidity:    record.Main.Humidity,
		Pressure:    record.Main.Pressure,
		CloudCover:  record.Clouds.All,
		WindSpeed:   record.Wind.Speed,
		Latitude:    lat,
		Longitude:   lon,
	}
	if len(record.Weather) > 0 {
		snapshot.Condition = record.Weather[0].Main
		snapshot.Description = record.Weather[0].Description
	}

	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save weather snapshot: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, "weather:snapshot", snapshot, 10*time.Minute); err != nil {
		log.Printf("Failed to cache weather snapshot: %v", err)
	}

	if err := s.cacheRepo.Set(ctx, lockKey, "1", 10*time.Minute); err != nil {
		log.Printf("Failed to set fetch lock: %v", err)
	}

	return nil
}

func (s *weatherService) GetSnapshot(ctx context.Context) (*models.WeatherSnapshot, error) {
	cacheKey := "weather:snapshot"

	var cached models.WeatherSnapshot
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && !cached.UpdatedAt.IsZero() {
		return &cached, nil
	}

	snapshot, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather snapshot: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, snapshot, 10*time.Minute); err != nil {
		log.Printf("Failed to cache weather snapshot: %v", err)
	}

	return snapshot, nil
}
