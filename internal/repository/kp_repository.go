package repository

import (
	"context"

	"celestia/internal/models"

	"gorm.io/gorm"
)

type KpRepository interface {
	// ReplaceAll целиком заменяет набор показаний (старые строки удаляются, не мержатся)
	ReplaceAll(ctx context.Context, readings []models.KpReading) error
	GetLatest(ctx context.Context) (*models.KpReading, error)
	GetAll(ctx context.Context, limit int) ([]models.KpReading, error)
	Count(ctx context.Context) (int64, error)
}

type kpRepository struct {
	db *gorm.DB
}

func NewKpRepository(db *gorm.DB) KpRepository {
	return &kpRepository{db: db}
}

func (r *kpRepository) ReplaceAll(ctx context.Context, readings []models.KpReading) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.KpReading{}).Error; err != nil {
			return err
		}
		if len(readings) == 0 {
			return nil
		}
		return tx.CreateInBatches(readings, 200).Error
	})
}

func (r *kpRepository) GetLatest(ctx context.Context) (*models.KpReading, error) {
	var reading models.KpReading
	err := r.db.WithContext(ctx).
		Order("time_tag DESC").
		First(&reading).
		Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (r *kpRepository) GetAll(ctx context.Context, limit int) ([]models.KpReading, error) {
	if limit < 1 || limit > 1000 {
		limit = 240
	}

	var readings []models.KpReading
	err := r.db.WithContext(ctx).
		Order("time_tag DESC").
		Limit(limit).
		Find(&readings).
		Error
	return readings, err
}

func (r *kpRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.KpReading{}).
		Count(&count).
		Error
	return count, err
}
