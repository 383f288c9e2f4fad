package alert

import (
	"context"

	"celestia/internal/models"
)

// LocationProvider возвращает последние известные координаты пользователя
// или ok=false, если локация недоступна.
type LocationProvider interface {
	LastKnown(ctx context.Context) (lat, lon float64, ok bool, err error)
}

// PreferenceStore — подмножество хранилища настроек, которое читает и
// пишет Alert Evaluator. Передается явно, а не через глобальный синглтон.
type PreferenceStore interface {
	GetBool(ctx context.Context, key string, defaultValue bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
	GetFloat(ctx context.Context, key string, defaultValue float64) (float64, error)
	SetFloat(ctx context.Context, key string, value float64) error
	GetInt64(ctx context.Context, key string, defaultValue int64) (int64, error)
	SetInt64(ctx context.Context, key string, value int64) error
}

// HomeLocationProvider отдает домашнюю локацию из настроек как
// последнюю известную. Координаты (0, 0) трактуются как "не задано".
type HomeLocationProvider struct {
	prefs PreferenceStore
}

func NewHomeLocationProvider(prefs PreferenceStore) *HomeLocationProvider {
	return &HomeLocationProvider{prefs: prefs}
}

func (p *HomeLocationProvider) LastKnown(ctx context.Context) (float64, float64, bool, error) {
	lat, err := p.prefs.GetFloat(ctx, models.PrefHomeLat, 0)
	if err != nil {
		return 0, 0, false, err
	}
	lon, err := p.prefs.GetFloat(ctx, models.PrefHomeLon, 0)
	if err != nil {
		return 0, 0, false, err
	}
	if lat == 0 && lon == 0 {
		return 0, 0, false, nil
	}
	return lat, lon, true, nil
}
