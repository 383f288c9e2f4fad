package repository

import (
	"context"
	"errors"
	"strconv"

	"celestia/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository — долговечное key-value хранилище настроек и
// состояния алертов. Чтение отсутствующего ключа возвращает default,
// запись атомарна по ключу (upsert).
type PreferenceRepository interface {
	GetString(ctx context.Context, key, defaultValue string) (string, error)
	SetString(ctx context.Context, key, value string) error

	GetBool(ctx context.Context, key string, defaultValue bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error

	GetFloat(ctx context.Context, key string, defaultValue float64) (float64, error)
	SetFloat(ctx context.Context, key string, value float64) error

	GetInt64(ctx context.Context, key string, defaultValue int64) (int64, error)
	SetInt64(ctx context.Context, key string, value int64) error
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetString(ctx context.Context, key, defaultValue string) (string, error) {
	var pref models.Preference
	err := r.db.WithContext(ctx).First(&pref, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultValue, nil
	}
	if err != nil {
		return defaultValue, err
	}
	return pref.Value, nil
}

func (r *preferenceRepository) SetString(ctx context.Context, key, value string) error {
	pref := models.Preference{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&pref).
		Error
}

func (r *preferenceRepository) GetBool(ctx context.Context, key string, defaultValue bool) (bool, error) {
	raw, err := r.GetString(ctx, key, "")
	if err != nil || raw == "" {
		return defaultValue, err
	}
	val, parseErr := strconv.ParseBool(raw)
	if parseErr != nil {
		return defaultValue, nil
	}
	return val, nil
}

func (r *preferenceRepository) SetBool(ctx context.Context, key string, value bool) error {
	return r.SetString(ctx, key, strconv.FormatBool(value))
}

func (r *preferenceRepository) GetFloat(ctx context.Context, key string, defaultValue float64) (float64, error) {
	raw, err := r.GetString(ctx, key, "")
	if err != nil || raw == "" {
		return defaultValue, err
	}
	val, parseErr := strconv.ParseFloat(raw, 64)
	if parseErr != nil {
		return defaultValue, nil
	}
	return val, nil
}

func (r *preferenceRepository) SetFloat(ctx context.Context, key string, value float64) error {
	return r.SetString(ctx, key, strconv.FormatFloat(value, 'f', -1, 64))
}

func (r *preferenceRepository) GetInt64(ctx context.Context, key string, defaultValue int64) (int64, error) {
	raw, err := r.GetString(ctx, key, "")
	if err != nil || raw == "" {
		return defaultValue, err
	}
	val, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		return defaultValue, nil
	}
	return val, nil
}

func (r *preferenceRepository) SetInt64(ctx context.Context, key string, value int64) error {
	return r.SetString(ctx, key, strconv.FormatInt(value, 10))
}
