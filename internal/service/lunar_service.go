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

type LunarService interface {
	RefreshSnapshot(ctx context.Context) error
	GetSnapshot(ctx context.Context) (*models.LunarSnapshot, error)
}

type lunarService struct {
	repo      repository.LunarRepository
	prefsRepo repository.PreferenceRepository
	cacheRepo repository.CacheRepository
	client    clients.MoonClient
}

func NewLunarService(
	repo repository.LunarRepository,
	prefsRepo repository.PreferenceRepository,
	cacheRepo repository.CacheRepository,
	client clients.MoonClient,
) LunarService {
	return &lunarService{
		repo:      repo,
		prefsRepo: prefsRepo,
		cacheRepo: cacheRepo,
		client:    client,
	}
}

func (s *lunarService) RefreshSnapshot(ctx context.Context) error {
	lockKey := "moon:last_fetch"
	if cached, err := s.cacheRepo.Get(ctx, lockKey); err == nil && cached != "" {
		return nil // Уже обновляли недавно
	}

	// Лунные данные считаем для домашней локации пользователя
	lat, _ := s.prefsRepo.GetFloat(ctx, models.PrefHomeLat, 0)
	lon, _ := s.prefsRepo.GetFloat(ctx, models.PrefHomeLon, 0)

	log.Println("Fetching lunar data...")

	record, err := s.client.GetMoonData(ctx, lat, lon)
	if err != nil {
		return fmt.Errorf("failed to fetch lunar data: %w", err)
	}

	snapshot := &models.LunarSnapshot{
		Phase:        record.MoonPhase,
		Illumination: parseFloatOrZero(record.MoonIllumination),
		Moonrise:     record.Moonrise,
		Moonset:      record.Moonset,
		DistanceKm:   record.MoonDistance,
	}

	if err := s.repo.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save lunar snapshot: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, "moon:snapshot", snapshot, 30*time.Minute); err != nil {
		log.Printf("Failed to cache lunar snapshot: %v", err)
	}

	if err := s.cacheRepo.Set(ctx, lockKey, "1", 30*time.Minute); err != nil {
		log.Printf("Failed to set fetch lock: %v", err)
	}

	return nil
}

func (s *lunarService) GetSnapshot(ctx context.Context) (*models.LunarSnapshot, error) {
	cacheKey := "moon:snapshot"

	var cached models.LunarSnapshot
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && cached.Phase != "" {
		return &cached, nil
	}

	snapshot, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get lunar snapshot: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, snapshot, 30*time.Minute); err != nil {
		log.Printf("Failed to cache lunar snapshot: %v", err)
	}

	return snapshot, nil
}
