package repository

import (
	"context"

	"celestia/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LunarRepository interface {
	Upsert(ctx context.Context, snapshot *models.LunarSnapshot) error
	Get(ctx context.Context) (*models.LunarSnapshot, error)
}

type lunarRepository struct {
	db *gorm.DB
}

func NewLunarRepository(db *gorm.DB) LunarRepository {
	return &lunarRepository{db: db}
}

func (r *lunarRepository) Upsert(ctx context.Context, snapshot *models.LunarSnapshot) error {
	snapshot.ID = models.SingletonID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(snapshot).
		Error
}

func (r *lunarRepository) Get(ctx context.Context) (*models.LunarSnapshot, error) {
	var snapshot models.LunarSnapshot
	err := r.db.WithContext(ctx).
		First(&snapshot, "id = ?", models.SingletonID).
		Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}
