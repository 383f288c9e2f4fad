package handlers

import (
	"net/http"

	"celestia/internal/models"
	"celestia/internal/repository"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	prefs repository.PreferenceRepository
}

func NewSettingsHandler(prefs repository.PreferenceRepository) *SettingsHandler {
	return &SettingsHandler{prefs: prefs}
}

// AlertSettings — пользовательские настройки алертов. Указатели в
// update-запросе отличают "не прислано" от "выключить".
type AlertSettings struct {
	KpAlertsEnabled     bool    `json:"kp_alerts_enabled"`
	ISSProximityEnabled bool    `json:"iss_proximity_enabled"`
	UseDeviceLocation   bool    `json:"use_device_location"`
	HomeLat             float64 `json:"home_lat"`
	HomeLon             float64 `json:"home_lon"`
}

type alertSettingsUpdate struct {
	KpAlertsEnabled     *bool    `json:"kp_alerts_enabled"`
	ISSProximityEnabled *bool    `json:"iss_proximity_enabled"`
	UseDeviceLocation   *bool    `json:"use_device_location"`
	HomeLat             *float64 `json:"home_lat"`
	HomeLon             *float64 `json:"home_lon"`
}

func (h *SettingsHandler) GetAlertSettings(c *gin.Context) {
	ctx := c.Request.Context()

	settings := AlertSettings{}
	var err error

	if settings.KpAlertsEnabled, err = h.prefs.GetBool(ctx, models.PrefKpAlertsEnabled, false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read settings"})
		return
	}
	settings.ISSProximityEnabled, _ = h.prefs.GetBool(ctx, models.PrefISSProximityEnabled, false)
	settings.UseDeviceLocation, _ = h.prefs.GetBool(ctx, models.PrefUseDeviceLocation, false)
	settings.HomeLat, _ = h.prefs.GetFloat(ctx, models.PrefHomeLat, 0)
	settings.HomeLon, _ = h.prefs.GetFloat(ctx, models.PrefHomeLon, 0)

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateAlertSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var update alertSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid settings payload",
			"message": err.Error(),
		})
		return
	}

	if update.KpAlertsEnabled != nil {
		if err := h.prefs.SetBool(ctx, models.PrefKpAlertsEnabled, *update.KpAlertsEnabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
			return
		}
	}
	if update.ISSProximityEnabled != nil {
		if err := h.prefs.SetBool(ctx, models.PrefISSProximityEnabled, *update.ISSProximityEnabled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
			return
		}
	}
	if update.UseDeviceLocation != nil {
		if err := h.prefs.SetBool(ctx, models.PrefUseDeviceLocation, *update.UseDeviceLocation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
			return
		}
	}
	if update.HomeLat != nil {
		if err := h.prefs.SetFloat(ctx, models.PrefHomeLat, *update.HomeLat); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
			return
		}
	}
	if update.HomeLon != nil {
		if err := h.prefs.SetFloat(ctx, models.PrefHomeLon, *update.HomeLon); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
			return
		}
	}

	h.GetAlertSettings(c)
}
