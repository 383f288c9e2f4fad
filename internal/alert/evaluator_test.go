package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"celestia/internal/models"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKpSource struct {
	reading    *models.KpReading
	refreshErr error
	latestErr  error
}

func (f *fakeKpSource) RefreshReadings(ctx context.Context) error {
	return f.refreshErr
}

func (f *fakeKpSource) GetLatest(ctx context.Context) (*models.KpReading, error) {
	return f.reading, f.latestErr
}

type fakeISSSource struct {
	position *models.ISSPosition
	err      error
}

func (f *fakeISSSource) CurrentPosition(ctx context.Context) (*models.ISSPosition, error) {
	return f.position, f.err
}

type fakeLocation struct {
	lat, lon float64
	ok       bool
	err      error
}

func (f *fakeLocation) LastKnown(ctx context.Context) (float64, float64, bool, error) {
	return f.lat, f.lon, f.ok, f.err
}

type notification struct {
	title   string
	message string
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (f *fakeNotifier) Notify(ctx context.Context, title, message string) error {
	f.sent = append(f.sent, notification{title: title, message: message})
	return f.err
}

// memPrefs — PreferenceStore в памяти; writes считает все мутации
type memPrefs struct {
	bools  map[string]bool
	floats map[string]float64
	ints   map[string]int64
	writes int
}

func newMemPrefs() *memPrefs {
	return &memPrefs{
		bools:  make(map[string]bool),
		floats: make(map[string]float64),
		ints:   make(map[string]int64),
	}
}

func (m *memPrefs) GetBool(ctx context.Context, key string, defaultValue bool) (bool, error) {
	if v, ok := m.bools[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *memPrefs) SetBool(ctx context.Context, key string, value bool) error {
	m.bools[key] = value
	m.writes++
	return nil
}

func (m *memPrefs) GetFloat(ctx context.Context, key string, defaultValue float64) (float64, error) {
	if v, ok := m.floats[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *memPrefs) SetFloat(ctx context.Context, key string, value float64) error {
	m.floats[key] = value
	m.writes++
	return nil
}

func (m *memPrefs) GetInt64(ctx context.Context, key string, defaultValue int64) (int64, error) {
	if v, ok := m.ints[key]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (m *memPrefs) SetInt64(ctx context.Context, key string, value int64) error {
	m.ints[key] = value
	m.writes++
	return nil
}

func kpReading(estimated float64) *models.KpReading {
	return &models.KpReading{
		TimeTag:     time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		EstimatedKp: estimated,
	}
}

func issAt(lat, lon float64) *models.ISSPosition {
	return &models.ISSPosition{Latitude: lat, Longitude: lon}
}

func TestEvaluator_Storm_FiresAboveThreshold(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	notifier := &fakeNotifier{}

	e := NewEvaluator(&fakeKpSource{reading: kpReading(6.33)}, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeAlerted, report.Storm.Outcome)
	assert.Equal(t, 6.33, report.Storm.Value)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Geomagnetic storm", notifier.sent[0].title)
	assert.Contains(t, notifier.sent[0].message, "6.33")
	assert.Equal(t, 6.33, prefs.floats[models.PrefLastAlertedKp])
}

func TestEvaluator_Storm_NoRepeatForSameValue(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	notifier := &fakeNotifier{}

	e := NewEvaluator(&fakeKpSource{reading: kpReading(5.2)}, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())

	first := e.RunOnce(context.Background())
	second := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeAlerted, first.Storm.Outcome)
	assert.Equal(t, OutcomeNoAction, second.Storm.Outcome)
	assert.Equal(t, "already alerted for this value", second.Storm.Reason)
	assert.Len(t, notifier.sent, 1)
}

func TestEvaluator_Storm_FiresAgainOnNewValue(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	notifier := &fakeNotifier{}
	kp := &fakeKpSource{reading: kpReading(5.2)}

	e := NewEvaluator(kp, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())

	e.RunOnce(context.Background())
	kp.reading = kpReading(6.0)
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeAlerted, report.Storm.Outcome)
	assert.Len(t, notifier.sent, 2)
	assert.Equal(t, 6.0, prefs.floats[models.PrefLastAlertedKp])
}

func TestEvaluator_Storm_ResetsBelowThreshold(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	prefs.floats[models.PrefLastAlertedKp] = 5.2
	notifier := &fakeNotifier{}
	kp := &fakeKpSource{reading: kpReading(4.0)}

	e := NewEvaluator(kp, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeNoAction, report.Storm.Outcome)
	assert.Equal(t, "below storm threshold", report.Storm.Reason)
	assert.Empty(t, notifier.sent)
	// Алерт взведен заново: повторный шторм того же уровня снова уведомит
	assert.Equal(t, KpSentinel, prefs.floats[models.PrefLastAlertedKp])

	kp.reading = kpReading(5.2)
	report = e.RunOnce(context.Background())
	assert.Equal(t, OutcomeAlerted, report.Storm.Outcome)
}

func TestEvaluator_Storm_FullCycle(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	prefs.floats[models.PrefLastAlertedKp] = KpSentinel
	notifier := &fakeNotifier{}
	kp := &fakeKpSource{reading: kpReading(5.2)}

	e := NewEvaluator(kp, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())

	report := e.RunOnce(context.Background())
	assert.Equal(t, OutcomeAlerted, report.Storm.Outcome)
	assert.Equal(t, 5.2, prefs.floats[models.PrefLastAlertedKp])

	report = e.RunOnce(context.Background())
	assert.Equal(t, OutcomeNoAction, report.Storm.Outcome)

	kp.reading = kpReading(4.0)
	report = e.RunOnce(context.Background())
	assert.Equal(t, OutcomeNoAction, report.Storm.Outcome)
	assert.Equal(t, KpSentinel, prefs.floats[models.PrefLastAlertedKp])

	assert.Len(t, notifier.sent, 1)
}

func TestEvaluator_Storm_DisabledLeavesStateUntouched(t *testing.T) {
	prefs := newMemPrefs()
	prefs.floats[models.PrefLastAlertedKp] = 5.2
	notifier := &fakeNotifier{}

	e := NewEvaluator(&fakeKpSource{reading: kpReading(7.0)}, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeSkipped, report.Storm.Outcome)
	assert.Empty(t, notifier.sent)
	assert.Zero(t, prefs.writes)
	assert.Equal(t, 5.2, prefs.floats[models.PrefLastAlertedKp])
}

func TestEvaluator_Storm_NoDataTreatedAsZero(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	prefs.floats[models.PrefLastAlertedKp] = 5.2
	notifier := &fakeNotifier{}

	e := NewEvaluator(&fakeKpSource{latestErr: errors.New("no rows")}, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeNoAction, report.Storm.Outcome)
	assert.Equal(t, 0.0, report.Storm.Value)
	assert.Empty(t, notifier.sent)
	assert.Equal(t, KpSentinel, prefs.floats[models.PrefLastAlertedKp])
}

func TestEvaluator_Storm_RefreshFailureUsesCachedReading(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	notifier := &fakeNotifier{}
	kp := &fakeKpSource{reading: kpReading(5.7), refreshErr: errors.New("network down")}

	e := NewEvaluator(kp, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeAlerted, report.Storm.Outcome)
	assert.Len(t, notifier.sent, 1)
}

func TestEvaluator_Proximity_DisabledFlagsSkip(t *testing.T) {
	cases := []struct {
		name        string
		proximity   bool
		useLocation bool
		reason      string
	}{
		{"proximity disabled", false, true, "proximity alerts disabled"},
		{"device location disabled", true, false, "device location disabled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prefs := newMemPrefs()
			prefs.bools[models.PrefISSProximityEnabled] = tc.proximity
			prefs.bools[models.PrefUseDeviceLocation] = tc.useLocation
			notifier := &fakeNotifier{}

			e := NewEvaluator(&fakeKpSource{}, &fakeISSSource{position: issAt(0, 0)}, prefs, notifier,
				&fakeLocation{lat: 0, lon: 0, ok: true}, clockwork.NewFakeClock())
			report := e.RunOnce(context.Background())

			assert.Equal(t, OutcomeSkipped, report.Proximity.Outcome)
			assert.Equal(t, tc.reason, report.Proximity.Reason)
			assert.Empty(t, notifier.sent)
		})
	}
}

func TestEvaluator_Proximity_SkipsWithoutLocation(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefISSProximityEnabled] = true
	prefs.bools[models.PrefUseDeviceLocation] = true

	e := NewEvaluator(&fakeKpSource{}, &fakeISSSource{position: issAt(0, 0)}, prefs, &fakeNotifier{},
		&fakeLocation{ok: false}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeSkipped, report.Proximity.Outcome)
	assert.Equal(t, "location unavailable", report.Proximity.Reason)
}

func TestEvaluator_Proximity_SkipsWithoutSatellitePosition(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefISSProximityEnabled] = true
	prefs.bools[models.PrefUseDeviceLocation] = true

	e := NewEvaluator(&fakeKpSource{}, &fakeISSSource{err: errors.New("no position")}, prefs, &fakeNotifier{},
		&fakeLocation{lat: 55.75, lon: 37.62, ok: true}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeSkipped, report.Proximity.Outcome)
	assert.Equal(t, "satellite position unavailable", report.Proximity.Reason)
}

func TestEvaluator_Proximity_AlertsWhenApproachingInsideRadius(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefISSProximityEnabled] = true
	prefs.bools[models.PrefUseDeviceLocation] = true
	notifier := &fakeNotifier{}

	// Пользователь на экваторе, МКС в ~1112 км (10° долготы).
	// Прошлой дистанции нет — первое измерение считается сближением.
	e := NewEvaluator(&fakeKpSource{}, &fakeISSSource{position: issAt(0, 10)}, prefs, notifier,
		&fakeLocation{lat: 0, lon: 0, ok: true}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeAlerted, report.Proximity.Outcome)
	assert.InDelta(t, 1112, report.Proximity.Value, 2)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "ISS overhead", notifier.sent[0].title)
	assert.InDelta(t, 1112, prefs.floats[models.PrefLastISSDistanceKm], 2)
	assert.NotZero(t, prefs.ints[models.PrefLastProximityAlertMs])
}

func TestEvaluator_Proximity_NoAlertWhenReceding(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefISSProximityEnabled] = true
	prefs.bools[models.PrefUseDeviceLocation] = true
	prefs.floats[models.PrefLastISSDistanceKm] = 500
	notifier := &fakeNotifier{}

	e := NewEvaluator(&fakeKpSource{}, &fakeISSSource{position: issAt(0, 10)}, prefs, notifier,
		&fakeLocation{lat: 0, lon: 0, ok: true}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeNoAction, report.Proximity.Outcome)
	assert.Equal(t, "not approaching", report.Proximity.Reason)
	assert.Empty(t, notifier.sent)
	// Дистанция фиксируется даже без уведомления — база следующего цикла
	assert.InDelta(t, 1112, prefs.floats[models.PrefLastISSDistanceKm], 2)
}

func TestEvaluator_Proximity_NoAlertOutsideRadius(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefISSProximityEnabled] = true
	prefs.bools[models.PrefUseDeviceLocation] = true
	notifier := &fakeNotifier{}

	// ~2224 км: сближение есть, но вне радиуса
	e := NewEvaluator(&fakeKpSource{}, &fakeISSSource{position: issAt(0, 20)}, prefs, notifier,
		&fakeLocation{lat: 0, lon: 0, ok: true}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	assert.Equal(t, OutcomeNoAction, report.Proximity.Outcome)
	assert.Equal(t, "outside proximity radius", report.Proximity.Reason)
	assert.Empty(t, notifier.sent)
	assert.InDelta(t, 2224, prefs.floats[models.PrefLastISSDistanceKm], 2)
}

func TestEvaluator_Proximity_CooldownSuppressesRepeat(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefISSProximityEnabled] = true
	prefs.bools[models.PrefUseDeviceLocation] = true
	notifier := &fakeNotifier{}
	iss := &fakeISSSource{position: issAt(0, 10)}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC))

	e := NewEvaluator(&fakeKpSource{}, iss, prefs, notifier,
		&fakeLocation{lat: 0, lon: 0, ok: true}, clock)

	report := e.RunOnce(context.Background())
	require.Equal(t, OutcomeAlerted, report.Proximity.Outcome)

	// Полчаса спустя станция еще ближе, но cooldown активен
	clock.Advance(30 * time.Minute)
	iss.position = issAt(0, 5)
	report = e.RunOnce(context.Background())
	assert.Equal(t, OutcomeNoAction, report.Proximity.Outcome)
	assert.Equal(t, "cooldown active", report.Proximity.Reason)
	assert.Len(t, notifier.sent, 1)

	// После полного cooldown сближение снова уведомляет
	clock.Advance(61 * time.Minute)
	iss.position = issAt(0, 2)
	report = e.RunOnce(context.Background())
	assert.Equal(t, OutcomeAlerted, report.Proximity.Outcome)
	assert.Len(t, notifier.sent, 2)
}

func TestEvaluator_RunOnce_NotifierFailureStillPersistsState(t *testing.T) {
	prefs := newMemPrefs()
	prefs.bools[models.PrefKpAlertsEnabled] = true
	notifier := &fakeNotifier{err: errors.New("push gateway down")}

	e := NewEvaluator(&fakeKpSource{reading: kpReading(6.0)}, &fakeISSSource{}, prefs, notifier, &fakeLocation{}, clockwork.NewFakeClock())
	report := e.RunOnce(context.Background())

	// Сбой отправки поглощается, чтобы не зациклить повтор того же алерта
	assert.Equal(t, OutcomeAlerted, report.Storm.Outcome)
	assert.Equal(t, 6.0, prefs.floats[models.PrefLastAlertedKp])
}

func TestEvaluator_RunOnce_ReportsClockTime(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(at)

	e := NewEvaluator(&fakeKpSource{}, &fakeISSSource{}, newMemPrefs(), &fakeNotifier{}, &fakeLocation{}, clock)
	report := e.RunOnce(context.Background())

	assert.Equal(t, at, report.RanAt)
	assert.Equal(t, OutcomeSkipped, report.Storm.Outcome)
	assert.Equal(t, OutcomeSkipped, report.Proximity.Outcome)
}
