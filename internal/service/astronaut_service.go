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

type AstronautService interface {
	RefreshRoster(ctx context.Context) error
	GetRoster(ctx context.Context) ([]models.Astronaut, error)
}

type astronautService struct {
	repo      repository.AstronautRepository
	cacheRepo repository.CacheRepository
	client    clients.AstrosClient
}

func NewAstronautService(
	repo repository.AstronautRepository,
	cacheRepo repository.CacheRepository,
	client clients.AstrosClient,
) AstronautService {
	return &astronautService{
		repo:      repo,
		cacheRepo: cacheRepo,
		client:    client,
	}
}

func (s *astronautService) RefreshRoster(ctx context.Context) error {
	lockKey := "astros:last_fetch"
	if cached, err := s.cacheRepo.Get(ctx, lockKey); err == nil && cached != "" {
		return nil // Уже обновляли недавно
	}

	log.Println("Fetching astronaut roster...")

	record, err := s.client.GetPeopleInSpace(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch astronaut roster: %w", err)
	}

	astronauts := make([]models.Astronaut, 0, len(record.People))
	for _, person := range record.People {
		if person.Name == "" {
			continue
		}
		astronauts = append(astronauts, models.Astronaut{
			Name:  person.Name,
			Craft: person.Craft,
		})
	}

	if err := s.repo.ReplaceAll(ctx, astronauts); err != nil {
		return fmt.Errorf("failed to store astronaut roster: %w", err)
	}

	if err := s.cacheRepo.Set(ctx, lockKey, "1", 30*time.Minute); err != nil {
		log.Printf("Failed to set fetch lock: %v", err)
	}

	log.Printf("Astronaut roster updated: %d people", len(astronauts))
	return nil
}

func (s *astronautService) GetRoster(ctx context.Context) ([]models.Astronaut, error) {
	cacheKey := "astros:roster"

	var astronauts []models.Astronaut
	if err := s.cacheRepo.GetJSON(ctx, cacheKey, &astronauts); err == nil && len(astronauts) > 0 {
		return astronauts, nil
	}

	astronauts, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get astronaut roster: %w", err)
	}

	if len(astronauts) > 0 {
		if err := s.cacheRepo.SetJSON(ctx, cacheKey, astronauts, 10*time.Minute); err != nil {
			log.Printf("Failed to cache astronaut roster: %v", err)
		}
	}

	return astronauts, nil
}
