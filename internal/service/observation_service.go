package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"celestia/internal/models"
	"celestia/internal/repository"
	"celestia/internal/utils"

	"github.com/google/uuid"
)

type ObservationService interface {
	Create(ctx context.Context, input ObservationInput) (*models.ObservationEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ObservationEntry, error)
	List(ctx context.Context, page, limit int) ([]models.ObservationEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExportJournal(ctx context.Context, format string) (string, error)
}

// ObservationInput — пользовательский ввод для новой записи журнала
type ObservationInput struct {
	Title             string   `json:"title" binding:"required"`
	Notes             string   `json:"notes" binding:"required"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	PhotoURL          string   `json:"photo_url"`
	CaptureConditions bool     `json:"capture_conditions"`
}

type observationService struct {
	repo           repository.ObservationRepository
	kpService      KpService
	issService     ISSService
	weatherService WeatherService
	exportDir      string
}

func NewObservationService(
	repo repository.ObservationRepository,
	kpService KpService,
	issService ISSService,
	weatherService WeatherService,
	exportDir string,
) ObservationService {
	if exportDir == "" {
		exportDir = "./data/journal"
	}

	// Создаем директорию если не существует
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		log.Printf("Failed to create journal export directory: %v", err)
	}

	return &observationService{
		repo:           repo,
		kpService:      kpService,
		issService:     issService,
		weatherService: weatherService,
		exportDir:      exportDir,
	}
}

func (s *observationService) Create(ctx context.Context, input ObservationInput) (*models.ObservationEntry, error) {
	entry := &models.ObservationEntry{
		ID:        uuid.New(),
		Title:     input.Title,
		Notes:     input.Notes,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		PhotoURL:  input.PhotoURL,
	}

	// Снимок текущих условий — best effort, отказ любого источника
	// оставляет поле пустым
	if input.CaptureConditions {
		if reading, err := s.kpService.GetLatest(ctx); err == nil {
			kp := reading.EstimatedKp
			entry.KpAtCapture = &kp
		}
		if input.Latitude != nil && input.Longitude != nil {
			if dist, err := s.issService.DistanceFromKm(ctx, *input.Latitude, *input.Longitude); err == nil {
				entry.ISSDistanceAtCapture = &dist
			}
		}
		if weather, err := s.weatherService.GetSnapshot(ctx); err == nil {
			temp := weather.Temperature
			entry.TemperatureAtCapture = &temp
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create observation: %w", err)
	}

	return entry, nil
}

func (s *observationService) Get(ctx context.Context, id uuid.UUID) (*models.ObservationEntry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *observationService) List(ctx context.Context, page, limit int) ([]models.ObservationEntry, error) {
	return s.repo.GetPaginated(ctx, page, limit)
}

func (s *observationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *observationService) ExportJournal(ctx context.Context, format string) (string, error) {
	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load journal entries: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")

	switch format {
	case "xlsx":
		path := filepath.Join(s.exportDir, fmt.Sprintf("journal_%s.xlsx", timestamp))
		if err := utils.CreateJournalExcel(path, entries); err != nil {
			return "", fmt.Errorf("failed to create Excel export: %w", err)
		}
		return path, nil
	case "", "csv":
		path := filepath.Join(s.exportDir, fmt.Sprintf("journal_%s.csv", timestamp))
		if err := writeJournalCSV(path, entries); err != nil {
			return "", fmt.Errorf("failed to create CSV export: %w", err)
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func writeJournalCSV(path string, entries []models.ObservationEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"id", "title", "created_at", "latitude", "longitude", "kp_at_capture", "iss_distance_at_capture", "temperature_at_capture", "notes", "photo_url"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, entry := range entries {
		row := []string{
			entry.ID.String(),
			entry.Title,
			entry.CreatedAt.UTC().Format(time.RFC3339),
			formatOptFloat(entry.Latitude),
			formatOptFloat(entry.Longitude),
			formatOptFloat(entry.KpAtCapture),
			formatOptFloat(entry.ISSDistanceAtCapture),
			formatOptFloat(entry.TemperatureAtCapture),
			entry.Notes,
			entry.PhotoURL,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func formatOptFloat(val *float64) string {
	if val == nil {
		return ""
	}
	return strconv.FormatFloat(*val, 'f', 2, 64)
}
