package utils

import "math"

// HaversineKm — расстояние по большому кругу между двумя точками, км
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371 // Earth radius in km

	fi1 := lat1 * math.Pi / 180
	fi2 := lat2 * math.Pi / 180
	deltaFi := (lat2 - lat1) * math.Pi / 180
	deltaXi := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaFi/2)*math.Sin(deltaFi/2) + math.Cos(fi1)*math.Cos(fi2)*math.Sin(deltaXi/2)*math.Sin(deltaXi/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return R * c
}
