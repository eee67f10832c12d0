package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "Same location",
			lat1:      37.7749,
			lon1:      -122.4194,
			lat2:      37.7749,
			lon2:      -122.4194,
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "SF to Oakland",
			lat1:      37.7749,
			lon1:      -122.4194,
			lat2:      37.8044,
			lon2:      -122.2712,
			expected:  13.0,
			tolerance: 1.0,
		},
		{
			name:      "NYC to LA",
			lat1:      40.7128,
			lon1:      -74.0060,
			lat2:      34.0522,
			lon2:      -118.2437,
			expected:  3940,
			tolerance: 50,
		},
		{
			name:      "One degree of longitude on the equator",
			lat1:      0,
			lon1:      0,
			lat2:      0,
			lon2:      1,
			expected:  EarthRadiusKm * math.Pi / 180,
			tolerance: 1e-9,
		},
		{
			name:      "Antipodal on the equator",
			lat1:      0,
			lon1:      0,
			lat2:      0,
			lon2:      180,
			expected:  EarthRadiusKm * math.Pi,
			tolerance: 1e-3,
		},
		{
			name:      "Antipodal near the pole",
			lat1:      -86.78,
			lon1:      -179,
			lat2:      86.78,
			lon2:      1,
			expected:  EarthRadiusKm * math.Pi,
			tolerance: 1e-3,
		},
		{
			name:      "Pole to pole",
			lat1:      90,
			lon1:      0,
			lat2:      -90,
			lon2:      0,
			expected:  EarthRadiusKm * math.Pi,
			tolerance: 1e-3,
		},
		{
			name:      "North pole at different longitudes",
			lat1:      90,
			lon1:      0,
			lat2:      90,
			lon2:      120,
			expected:  0,
			tolerance: 1e-6,
		},
		{
			name:      "Across the antimeridian",
			lat1:      0,
			lon1:      179.5,
			lat2:      0,
			lon2:      -179.5,
			expected:  EarthRadiusKm * math.Pi / 180,
			tolerance: 1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, result, tt.tolerance)
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{1, 1},
		{-33.8688, 151.2093},
		{51.5074, -0.1278},
		{89.9, 179.9},
		{-89.9, -179.9},
		{12.9716, 77.5946},
	}

	for _, a := range points {
		for _, b := range points {
			ab := Haversine(a[0], a[1], b[0], b[1])
			ba := Haversine(b[0], b[1], a[0], a[1])
			assert.InDelta(t, ab, ba, 1e-9, "haversine(%v, %v) not symmetric", a, b)
		}
		assert.Equal(t, 0.0, Haversine(a[0], a[1], a[0], a[1]))
	}
}

func TestHaversine_AntipodesAreFinite(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 0.25 {
		for lon := -180.0; lon <= 180; lon++ {
			d := Haversine(lat, lon, -lat, lon+180)
			if math.IsNaN(d) || math.Abs(d-EarthRadiusKm*math.Pi) > 0.01 {
				t.Fatalf("Haversine(%v, %v, %v, %v) = %v, want %v", lat, lon, -lat, lon+180, d, EarthRadiusKm*math.Pi)
			}
		}
	}
}

func BenchmarkHaversine(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Haversine(37.7749, -122.4194, 37.8044, -122.2712)
	}
}
