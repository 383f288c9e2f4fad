package repository

import (
	"context"

	"celestia/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ObservationRepository interface {
	Create(ctx context.Context, entry *models.ObservationEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ObservationEntry, error)
	GetPaginated(ctx context.Context, page, limit int) ([]models.ObservationEntry, error)
	GetAll(ctx context.Context) ([]models.ObservationEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type observationRepository struct {
	db *gorm.DB
}

func NewObservationRepository(db *gorm.DB) ObservationRepository {
	return &observationRepository{db: db}
}

func (r *observationRepository) Create(ctx context.Context, entry *models.ObservationEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *observationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ObservationEntry, error) {
	var entry models.ObservationEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *observationRepository) GetPaginated(ctx context.Context, page, limit int) ([]models.ObservationEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	offset := (page - 1) * limit

	var entries []models.ObservationEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).
		Error
	return entries, err
}

func (r *observationRepository) GetAll(ctx context.Context) ([]models.ObservationEntry, error) {
	var entries []models.ObservationEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&entries).
		Error
	return entries, err
}

func (r *observationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ObservationEntry{}, "id = ?", id).Error
}

func (r *observationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ObservationEntry{}).
		Count(&count).
		Error
	return count, err
}
