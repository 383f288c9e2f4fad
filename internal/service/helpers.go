package service

import (
	"strconv"
)

// parseFloatOrZero — числовые поля фидов приходят текстом; при ошибке
// парсинга значение по контракту становится 0.0, ошибка не поднимается
func parseFloatOrZero(raw string) float64 {
	if raw == "" {
		return 0.0
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0.0
	}
	return val
}
