package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"celestia/internal/clients"
	"celestia/internal/models"
	"celestia/internal/repository"
	"celestia/internal/utils"
)

type ISSService interface {
	RefreshPosition(ctx context.Context) error
	GetPosition(ctx context.Context) (*models.ISSPosition, error)
	// CurrentPosition обновляет позицию (ошибка сети поглощается) и
	// возвращает то, что есть в хранилище
	CurrentPosition(ctx context.Context) (*models.ISSPosition, error)
	DistanceFromKm(ctx context.Context, lat, lon float64) (float64, error)
}

type issService struct {
	repo      repository.ISSRepository
	cacheRepo repository.CacheRepository
	client    clients.ISSClient
}

func NewISSService(
	repo repository.ISSRepository,
	cacheRepo repository.CacheRepository,
	client clients.ISSClient,
) ISSService {
	return &issService{
		repo:      repo,
		cacheRepo: cacheRepo,
		client:    client,
	}
}

func (s *issService) RefreshPosition(ctx context.Context) error {
	lockKey := "iss:last_fetch"
	if cached, err := s.cacheRepo.Get(ctx, lockKey); err == nil && cached != "" {
		return nil // Уже обновляли недавно
	}

	log.Println("Fetching ISS position from external API...")

	record, err := s.client.GetCurrentPosition(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch ISS position: %w", err)
	}

	position := &models.ISSPosition{
		Latitude:    record.Latitude,
		Longitude:   record.Longitude,
		AltitudeKm:  record.Altitude,
		VelocityKmh: record.Velocity,
		Timestamp:   time.Unix(record.Timestamp, 0).UTC(),
	}

	// Одиночная запись перезаписывается на месте
	if err := s.repo.Upsert(ctx, position); err != nil {
		return fmt.Errorf("failed to save ISS position: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, "iss:position", position, 2*time.Minute); err != nil {
		log.Printf("Failed to cache ISS position: %v", err)
	}

	if err := s.cacheRepo.Set(ctx, lockKey, "1", 30*time.Second); err != nil {
		log.Printf("Failed to set fetch lock: %v", err)
	}

	return nil
}

func (s *issService) GetPosition(ctx context.Context) (*models.ISSPosition, error) {
	cacheKey := "iss:position"

	var cached models.ISSPosition
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && !cached.Timestamp.IsZero() {
		return &cached, nil
	}

	position, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ISS position: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, position, 2*time.Minute); err != nil {
		log.Printf("Failed to cache ISS position: %v", err)
	}

	return position, nil
}

func (s *issService) CurrentPosition(ctx context.Context) (*models.ISSPosition, error) {
	// Ошибка обновления не фатальна — отдаем закэшированную позицию
	if err := s.RefreshPosition(ctx); err != nil {
		log.Printf("ISS refresh failed, falling back to cache: %v", err)
	}
	return s.GetPosition(ctx)
}

func (s *issService) DistanceFromKm(ctx context.Context, lat, lon float64) (float64, error) {
	position, err := s.GetPosition(ctx)
	if err != nil {
		return 0, err
	}
	return utils.HaversineKm(lat, lon, position.Latitude, position.Longitude), nil
}
