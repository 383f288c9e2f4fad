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

type KpService interface {
	RefreshReadings(ctx context.Context) error
	GetLatest(ctx context.Context) (*models.KpReading, error)
	GetReadings(ctx context.Context, limit int) ([]models.KpReading, error)
}

type kpService struct {
	repo      repository.KpRepository
	cacheRepo repository.CacheRepository
	client    clients.KpClient
}

func NewKpService(
	repo repository.KpRepository,
	cacheRepo repository.CacheRepository,
	client clients.KpClient,
) KpService {
	return &kpService{
		repo:      repo,
		cacheRepo: cacheRepo,
		client:    client,
	}
}

// kpTimeLayouts — варианты формата time_tag в фиде NOAA
var kpTimeLayouts = []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02 15:04:05"}

func (s *kpService) RefreshReadings(ctx context.Context) error {
	// Проверяем, не выполнялся ли запрос недавно
	lockKey := "kp:last_fetch"
	if cached, err := s.cacheRepo.Get(ctx, lockKey); err == nil && cached != "" {
		return nil // Уже обновляли недавно
	}

	log.Println("Fetching Kp readings from NOAA...")

	records, err := s.client.FetchReadings(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch Kp readings: %w", err)
	}

	// time_tag — уникальный ключ; дубликаты в фиде схлопываются,
	// побеждает последняя запись
	byTag := make(map[time.Time]models.KpReading, len(records))
	order := make([]time.Time, 0, len(records))
	for _, rec := range records {
		tag, ok := parseKpTime(rec.TimeTag)
		if !ok {
			continue
		}
		if _, seen := byTag[tag]; !seen {
			order = append(order, tag)
		}
		byTag[tag] = models.KpReading{
			TimeTag:     tag,
			Kp:          rec.KpIndex,
			EstimatedKp: rec.EstimatedKp,
			Category:    models.KpCategory(rec.EstimatedKp),
		}
	}

	readings := make([]models.KpReading, 0, len(order))
	for _, tag := range order {
		readings = append(readings, byTag[tag])
	}

	// Полная замена набора показаний
	if err := s.repo.ReplaceAll(ctx, readings); err != nil {
		return fmt.Errorf("failed to store Kp readings: %w", err)
	}

	// Кэшируем последнее показание
	if len(readings) > 0 {
		latest := readings[len(readings)-1]
		if err := s.cacheRepo.SetJSON(ctx, "kp:latest", latest, 2*time.Minute); err != nil {
			log.Printf("Failed to cache Kp latest: %v", err)
		}
	}

	// Блокировка повторного фетча на минуту
	if err := s.cacheRepo.Set(ctx, lockKey, "1", time.Minute); err != nil {
		log.Printf("Failed to set fetch lock: %v", err)
	}

	log.Printf("Kp readings updated: %d rows", len(readings))
	return nil
}

func (s *kpService) GetLatest(ctx context.Context) (*models.KpReading, error) {
	cacheKey := "kp:latest"

	var cached models.KpReading
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &cached); err == nil && !cached.TimeTag.IsZero() {
		return &cached, nil
	}

	reading, err := s.repo.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest Kp reading: %w", err)
	}

	if err := s.cacheRepo.SetJSON(ctx, cacheKey, reading, 2*time.Minute); err != nil {
		log.Printf("Failed to cache Kp latest: %v", err)
	}

	return reading, nil
}

func (s *kpService) GetReadings(ctx context.Context, limit int) ([]models.KpReading, error) {
	if limit <= 0 {
		limit = 240
	}

	cacheKey := fmt.Sprintf("kp:readings:%d", limit)

	var readings []models.KpReading
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &readings); err == nil && len(readings) > 0 {
		return readings, nil
	}

	readings, err := s.repo.GetAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get Kp readings: %w", err)
	}

	if len(readings) > 0 {
		if err := s.cacheRepo.SetJSON(ctx, cacheKey, readings, time.Minute); err != nil {
			log.Printf("Failed to cache Kp readings: %v", err)
		}
	}

	return readings, nil
}

func parseKpTime(raw string) (time.Time, bool) {
	for _, layout := range kpTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
