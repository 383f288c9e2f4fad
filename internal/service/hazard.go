package service

// HazardRule решает, считать ли сближение опасным. Правило детерминированное
// и локальное: флагу из фида не доверяем, классификация пересчитывается
// на наших данных.
type HazardRule func(diameterMaxM, velocityKmh, missDistanceKm float64) bool

// DefaultHazardRule: крупный объект в пределах ~0.05 AU, либо очень быстрый
// объект на близкой дистанции.
func DefaultHazardRule(diameterMaxM, velocityKmh, missDistanceKm float64) bool {
	if diameterMaxM >= 140 && missDistanceKm <= 7_500_000 {
		return true
	}
	if velocityKmh >= 90_000 && missDistanceKm <= 1_000_000 {
		return true
	}
	return false
}
