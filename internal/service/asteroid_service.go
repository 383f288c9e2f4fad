package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"celestia/internal/clients"
	"celestia/internal/models"
	"celestia/internal/repository"
)

type AsteroidService interface {
	RefreshApproaches(ctx context.Context) error
	GetUpcoming(ctx context.Context, hazardousOnly bool, limit int) ([]models.AsteroidApproach, error)
}

type asteroidService struct {
	repo      repository.AsteroidRepository
	cacheRepo repository.CacheRepository
	client    clients.NeoClient
	hazard    HazardRule
}

func NewAsteroidService(
	repo repository.AsteroidRepository,
	cacheRepo repository.CacheRepository,
	client clients.NeoClient,
	hazard HazardRule,
) AsteroidService {
	if hazard == nil {
		hazard = DefaultHazardRule
	}
	return &asteroidService{
		repo:      repo,
		cacheRepo: cacheRepo,
		client:    client,
		hazard:    hazard,
	}
}

func (s *asteroidService) RefreshApproaches(ctx context.Context) error {
	lockKey := "neo:last_fetch"
	if cached, err := s.cacheRepo.Get(ctx, lockKey); err == nil && cached != "" {
		return nil // Уже обновляли недавно
	}

	log.Println("Fetching NEO feed...")

	feed, err := s.client.FetchFeed(ctx, 7)
	if err != nil {
		return fmt.Errorf("failed to fetch NEO feed: %w", err)
	}

	approaches := MapNeoFeed(feed, s.hazard)

	// Набор заменяется целиком на свежее окно
	if err := s.repo.ReplaceAll(ctx, approaches); err != nil {
		return fmt.Errorf("failed to store asteroid approaches: %w", err)
	}

	if err := s.cacheRepo.Set(ctx, lockKey, "1", 10*time.Minute); err != nil {
		log.Printf("Failed to set fetch lock: %v", err)
	}

	log.Printf("Asteroid approaches updated: %d rows", len(approaches))
	return nil
}

// MapNeoFeed отображает сгруппированный по датам фид в локальные записи:
// берется только первое сближение каждого объекта, числовые поля-строки
// парсятся с fallback 0.0, идентификатор склеивается из id объекта и даты,
// признак опасности пересчитывается локально.
func MapNeoFeed(feed *clients.NeoFeed, hazard HazardRule) []models.AsteroidApproach {
	if feed == nil {
		return nil
	}
	if hazard == nil {
		hazard = DefaultHazardRule
	}

	seen := make(map[string]bool)
	var approaches []models.AsteroidApproach

	for _, objects := range feed.NearEarthObjects {
		for _, obj := range objects {
			if obj.ID == "" || len(obj.CloseApproachData) == 0 {
				continue
			}

			// Только первое сближение объекта в окне
			approach := obj.CloseApproachData[0]

			id := obj.ID + "_" + approach.Date
			if seen[id] {
				continue
			}
			seen[id] = true

			missKm := parseFloatOrZero(approach.MissDistance.Kilometers)
			missAU := parseFloatOrZero(approach.MissDistance.Astronomical)
			velocity := parseFloatOrZero(approach.RelativeVelocity.KmPerHour)

			raw, _ := json.Marshal(obj)

			approaches = append(approaches, models.AsteroidApproach{
				ID:             id,
				NeoID:          obj.ID,
				Name:           obj.Name,
				ApproachDate:   approach.Date,
				MissDistanceKm: missKm,
				MissDistanceAU: missAU,
				VelocityKmh:    velocity,
				DiameterMinM:   obj.EstimatedDiameter.Meters.Min,
				DiameterMaxM:   obj.EstimatedDiameter.Meters.Max,
				IsHazardous:    hazard(obj.EstimatedDiameter.Meters.Max, velocity, missKm),
				Raw:            raw,
			})
		}
	}

	return approaches
}

func (s *asteroidService) GetUpcoming(ctx context.Context, hazardousOnly bool, limit int) ([]models.AsteroidApproach, error) {
	if limit <= 0 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("neo:upcoming:%t:%d", hazardousOnly, limit)

	var approaches []models.AsteroidApproach
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &approaches); err == nil && len(approaches) > 0 {
		return approaches, nil
	}

	approaches, err := s.repo.GetUpcoming(ctx, hazardousOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get asteroid approaches: %w", err)
	}

	if len(approaches) > 0 {
		if err := s.cacheRepo.SetJSON(ctx, cacheKey, approaches, 5*time.Minute); err != nil {
			log.Printf("Failed to cache asteroid approaches: %v", err)
		}
	}

	return approaches, nil
}
