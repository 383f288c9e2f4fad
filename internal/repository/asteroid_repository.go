package repository

import (
	"context"

	"celestia/internal/models"

	"gorm.io/gorm"
)

type AsteroidRepository interface {
	// ReplaceAll заменяет весь набор сближений на свежую выборку окна
	ReplaceAll(ctx context.Context, approaches []models.AsteroidApproach) error
	GetUpcoming(ctx context.Context, hazardousOnly bool, limit int) ([]models.AsteroidApproach, error)
	GetByID(ctx context.Context, id string) (*models.AsteroidApproach, error)
	Count(ctx context.Context) (int64, error)
}

type asteroidRepository struct {
	db *gorm.DB
}

func NewAsteroidRepository(db *gorm.DB) AsteroidRepository {
	return &asteroidRepository{db: db}
}

func (r *asteroidRepository) ReplaceAll(ctx context.Context, approaches []models.AsteroidApproach) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.AsteroidApproach{}).Error; err != nil {
			return err
		}
		if len(approaches) == 0 {
			return nil
		}
		return tx.CreateInBatches(approaches, 100).Error
	})
}

func (r *asteroidRepository) GetUpcoming(ctx context.Context, hazardousOnly bool, limit int) ([]models.AsteroidApproach, error) {
	if limit < 1 || limit > 200 {
		limit = 100
	}

	q := r.db.WithContext(ctx).
		Order("approach_date ASC, miss_distance_km ASC").
		Limit(limit)

	if hazardousOnly {
		q = q.Where("is_hazardous = ?", true)
	}

	var approaches []models.AsteroidApproach
	err := q.Find(&approaches).Error
	return approaches, err
}

func (r *asteroidRepository) GetByID(ctx context.Context, id string) (*models.AsteroidApproach, error) {
	var approach models.AsteroidApproach
	err := r.db.WithContext(ctx).First(&approach, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &approach, nil
}

func (r *asteroidRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AsteroidApproach{}).
		Count(&count).
		Error
	return count, err
}
