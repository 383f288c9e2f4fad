package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"celestia/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPreferences struct {
	strings map[string]string
	bools   map[string]bool
	floats  map[string]float64
	ints    map[string]int64
}

func newMemPreferences() *memPreferences {
	return &memPreferences{
		strings: make(map[string]string),
		bools:   make(map[string]bool),
		floats:  make(map[string]float64),
		ints:    make(map[string]int64),
	}
}

func (m *memPreferences) GetString(ctx context.Context, key, defaultValue string) (string, error) {
	if v, ok := m.strings[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *memPreferences) SetString(ctx context.Context, key, value string) error {
	m.strings[key] = value
	return nil
}

func (m *memPreferences) GetBool(ctx context.Context, key string, defaultValue bool) (bool, error) {
	if v, ok := m.bools[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *memPreferences) SetBool(ctx context.Context, key string, value bool) error {
	m.bools[key] = value
	return nil
}

func (m *memPreferences) GetFloat(ctx context.Context, key string, defaultValue float64) (float64, error) {
	if v, ok := m.floats[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *memPreferences) SetFloat(ctx context.Context, key string, value float64) error {
	m.floats[key] = value
	return nil
}

func (m *memPreferences) GetInt64(ctx context.Context, key string, defaultValue int64) (int64, error) {
	if v, ok := m.ints[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *memPreferences) SetInt64(ctx context.Context, key string, value int64) error {
	m.ints[key] = value
	return nil
}

func settingsRouter(prefs *memPreferences) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSettingsHandler(prefs)
	r.GET("/settings/alerts", h.GetAlertSettings)
	r.PUT("/settings/alerts", h.UpdateAlertSettings)
	return r
}

func TestSettingsHandler_GetAlertSettings_Defaults(t *testing.T) {
	r := settingsRouter(newMemPreferences())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/settings/alerts", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var settings AlertSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.False(t, settings.KpAlertsEnabled)
	assert.False(t, settings.ISSProximityEnabled)
	assert.Zero(t, settings.HomeLat)
}

func TestSettingsHandler_UpdateAlertSettings_PartialUpdate(t *testing.T) {
	prefs := newMemPreferences()
	prefs.bools[models.PrefISSProximityEnabled] = true
	r := settingsRouter(prefs)

	body := `{"kp_alerts_enabled": true, "home_lat": 55.75, "home_lon": 37.62}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/settings/alerts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var settings AlertSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.True(t, settings.KpAlertsEnabled)
	assert.Equal(t, 55.75, settings.HomeLat)
	assert.Equal(t, 37.62, settings.HomeLon)
	// Не присланные поля не трогаются
	assert.True(t, settings.ISSProximityEnabled)
}

func TestSettingsHandler_UpdateAlertSettings_DisableFlag(t *testing.T) {
	prefs := newMemPreferences()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	r := settingsRouter(prefs)

	body := `{"kp_alerts_enabled": false}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/settings/alerts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, prefs.bools[models.PrefKpAlertsEnabled])
}

func TestSettingsHandler_UpdateAlertSettings_RejectsMalformedPayload(t *testing.T) {
	r := settingsRouter(newMemPreferences())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/settings/alerts", strings.NewReader(`{"home_lat": "north"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
