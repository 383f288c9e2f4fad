package utils

import (
	"fmt"
	"time"

	"celestia/internal/models"

	"github.com/xuri/excelize/v2"
)

// CreateJournalExcel создает Excel файл с записями журнала наблюдений
func CreateJournalExcel(filepath string, entries []models.ObservationEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Journal"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}

	// Устанавливаем заголовки
	headers := []string{"Created At", "Title", "Latitude", "Longitude", "Kp", "ISS Distance (km)", "Temperature (°C)", "Notes", "Photo"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	numberStyle := getNumberStyle(f, "0.00")

	// Заполняем данные
	for rowIdx, entry := range entries {
		rowNum := rowIdx + 2 // Заголовок в первой строке

		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum),
			entry.CreatedAt.UTC().Format(time.RFC3339))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.Title)
		setOptFloatCell(f, sheet, fmt.Sprintf("C%d", rowNum), entry.Latitude)
		setOptFloatCell(f, sheet, fmt.Sprintf("D%d", rowNum), entry.Longitude)
		setOptFloatCell(f, sheet, fmt.Sprintf("E%d", rowNum), entry.KpAtCapture)
		setOptFloatCell(f, sheet, fmt.Sprintf("F%d", rowNum), entry.ISSDistanceAtCapture)
		setOptFloatCell(f, sheet, fmt.Sprintf("G%d", rowNum), entry.TemperatureAtCapture)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", rowNum), entry.Notes)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", rowNum), entry.PhotoURL)

		// Форматирование чисел
		f.SetCellStyle(sheet, fmt.Sprintf("C%d", rowNum), fmt.Sprintf("G%d", rowNum), numberStyle)
	}

	// Ширина колонок
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "G", 16)
	f.SetColWidth(sheet, "H", "H", 50)
	f.SetColWidth(sheet, "I", "I", 30)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(filepath)
}

func setOptFloatCell(f *excelize.File, sheet, cell string, val *float64) {
	if val == nil {
		return
	}
	f.SetCellValue(sheet, cell, *val)
}

func getNumberStyle(f *excelize.File, format string) int {
	style, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &format,
	})
	if err != nil {
		return 0
	}
	return style
}
