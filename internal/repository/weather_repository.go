package repository

import (
	"context"

	"celestia/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeatherRepository interface {
	Upsert(ctx context.Context, snapshot *models.WeatherSnapshot) error
	Get(ctx context.Context) (*models.WeatherSnapshot, error)
}

type weatherRepository struct {
	db *gorm.DB
}

func NewWeatherRepository(db *gorm.DB) WeatherRepository {
	return &weatherRepository{db: db}
}

func (r *weatherRepository) Upsert(ctx context.Context, snapshot *models.WeatherSnapshot) error {
	snapshot.ID = models.SingletonID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(snapshot).
		Error
}

func (r *weatherRepository) Get(ctx context.Context) (*models.WeatherSnapshot, error) {
	var snapshot models.WeatherSnapshot
	err := r.db.WithContext(ctx).
		First(&snapshot, "id = ?", models.SingletonID).
		Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
