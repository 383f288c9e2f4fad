package repository

import (
	"context"

	"celestia/internal/models"

	"gorm.io/gorm"
)

type AstronautRepository interface {
	ReplaceAll(ctx context.Context, astronauts []models.Astronaut) error
	GetAll(ctx context.Context) ([]models.Astronaut, error)
	Count(ctx context.Context) (int64, error)
}

type astronautRepository struct {
	db *gorm.DB
}

func NewAstronautRepository(db *gorm.DB) AstronautRepository {
	return &astronautRepository{db: db}
}

func (r *astronautRepository) ReplaceAll(ctx context.Context, astronauts []models.Astronaut) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Astronaut{}).Error; err != nil {
			return err
		}
		if len(astronauts) == 0 {
			return nil
		}
		return tx.Create(&astronauts).Error
	})
}

func (r *astronautRepository) GetAll(ctx context.Context) ([]models.Astronaut, error) {
	var astronauts []models.Astronaut
	err := r.db.WithContext(ctx).
		Order("craft ASC, name ASC").
		Find(&astronauts).
		Error
	return astronauts, err
}

func (r *astronautRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Astronaut{}).
		Count(&count).
		Error
	return count, err
}
