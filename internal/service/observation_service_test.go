package service

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"testing"
	"time"

	"celestia/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockObservationRepo struct {
	entries   []models.ObservationEntry
	createErr error
}

func (m *mockObservationRepo) Create(ctx context.Context, entry *models.ObservationEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockObservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ObservationEntry, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			return &m.entries[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockObservationRepo) GetPaginated(ctx context.Context, page, limit int) ([]models.ObservationEntry, error) {
	return m.entries, nil
}

func (m *mockObservationRepo) GetAll(ctx context.Context) ([]models.ObservationEntry, error) {
	return m.entries, nil
}

func (m *mockObservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockObservationRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.entries)), nil
}

type stubWeatherService struct {
	snapshot *models.WeatherSnapshot
	err      error
}

func (s *stubWeatherService) RefreshSnapshot(ctx context.Context) error { return nil }

func (s *stubWeatherService) GetSnapshot(ctx context.Context) (*models.WeatherSnapshot, error) {
	return s.snapshot, s.err
}

func float64Ptr(v float64) *float64 { return &v }

func newObservationFixture(t *testing.T) (ObservationService, *mockObservationRepo) {
	t.Helper()

	repo := &mockObservationRepo{}
	kpRepo := &mockKpRepo{latest: &models.KpReading{
		TimeTag:     time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		EstimatedKp: 4.2,
	}}
	issRepo := &mockISSRepo{position: &models.ISSPosition{
		Latitude:  0,
		Longitude: 10,
		Timestamp: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}}
	weather := &stubWeatherService{snapshot: &models.WeatherSnapshot{Temperature: -3.5}}

	svc := NewObservationService(
		repo,
		NewKpService(kpRepo, newMockCache(), &mockKpClient{}),
		NewISSService(issRepo, newMockCache(), &mockISSClient{err: errors.New("offline")}),
		weather,
		t.TempDir(),
	)
	return svc, repo
}

func TestObservationService_Create_WithoutConditions(t *testing.T) {
	svc, repo := newObservationFixture(t)

	entry, err := svc.Create(context.Background(), ObservationInput{
		Title: "Perseids",
		Notes: "Counted 12 meteors over an hour",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Nil(t, entry.KpAtCapture)
	assert.Nil(t, entry.ISSDistanceAtCapture)
	assert.Nil(t, entry.TemperatureAtCapture)
	assert.Len(t, repo.entries, 1)
}

func TestObservationService_Create_CapturesConditions(t *testing.T) {
	svc, _ := newObservationFixture(t)

	entry, err := svc.Create(context.Background(), ObservationInput{
		Title:             "ISS pass",
		Notes:             "Bright pass over the northern horizon",
		Latitude:          float64Ptr(0),
		Longitude:         float64Ptr(0),
		CaptureConditions: true,
	})

	require.NoError(t, err)
	require.NotNil(t, entry.KpAtCapture)
	assert.Equal(t, 4.2, *entry.KpAtCapture)
	require.NotNil(t, entry.ISSDistanceAtCapture)
	assert.InDelta(t, 1112, *entry.ISSDistanceAtCapture, 2)
	require.NotNil(t, entry.TemperatureAtCapture)
	assert.Equal(t, -3.5, *entry.TemperatureAtCapture)
}

func TestObservationService_Create_ConditionsAreBestEffort(t *testing.T) {
	repo := &mockObservationRepo{}
	svc := NewObservationService(
		repo,
		NewKpService(&mockKpRepo{latestErr: errors.New("no rows")}, newMockCache(), &mockKpClient{}),
		NewISSService(&mockISSRepo{getErr: errors.New("no rows")}, newMockCache(), &mockISSClient{err: errors.New("offline")}),
		&stubWeatherService{err: errors.New("no rows")},
		t.TempDir(),
	)

	entry, err := svc.Create(context.Background(), ObservationInput{
		Title:             "Cloudy night",
		Notes:             "Nothing visible",
		CaptureConditions: true,
	})

	require.NoError(t, err)
	assert.Nil(t, entry.KpAtCapture)
	assert.Nil(t, entry.ISSDistanceAtCapture)
	assert.Nil(t, entry.TemperatureAtCapture)
	assert.Len(t, repo.entries, 1)
}

func TestObservationService_ExportJournal_CSV(t *testing.T) {
	svc, _ := newObservationFixture(t)

	_, err := svc.Create(context.Background(), ObservationInput{
		Title:    "Lunar eclipse",
		Notes:    "Partial phase until midnight",
		Latitude: float64Ptr(55.75),
	})
	require.NoError(t, err)

	path, err := svc.ExportJournal(context.Background(), "csv")
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "title", rows[0][1])
	assert.Equal(t, "Lunar eclipse", rows[1][1])
	assert.Equal(t, "55.75", rows[1][3])
	assert.Empty(t, rows[1][4])
}

func TestObservationService_ExportJournal_UnsupportedFormat(t *testing.T) {
	svc, _ := newObservationFixture(t)

	_, err := svc.ExportJournal(context.Background(), "pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
