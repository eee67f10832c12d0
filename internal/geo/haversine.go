package geo

import "math"

const (
	EarthRadiusKm = 6371.0
)

// Haversine returns the great-circle distance in kilometres between two points
// given in degrees. The result is symmetric and exactly zero for identical
// points.
//
// Inputs are not range-checked: latitudes outside [-90, 90] or longitudes
// outside [-180, 180] produce a number, not an error. Callers validate at the
// boundary (see the HTTP request bindings).
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	// Rounding can push a just past 1 for near-antipodal points.
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}
