package repository

import (
	"context"

	"celestia/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ISSRepository interface {
	// Upsert перезаписывает единственную строку позиции (фиксированный ключ)
	Upsert(ctx context.Context, position *models.ISSPosition) error
	Get(ctx context.Context) (*models.ISSPosition, error)
}

type issRepository struct {
	db *gorm.DB
}

func NewISSRepository(db *gorm.DB) ISSRepository {
	return &issRepository{db: db}
}

func (r *issRepository) Upsert(ctx context.Context, position *models.ISSPosition) error {
	position.ID = models.SingletonID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(position).
		Error
}

func (r *issRepository) Get(ctx context.Context) (*models.ISSPosition, error) {
	var position models.ISSPosition
	err := r.db.WithContext(ctx).
		First(&position, "id = ?", models.SingletonID).
		Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}
