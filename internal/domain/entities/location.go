package entities

import (
	"encoding/json"
	"math"
)

// Location represents a geographic coordinate pair (latitude/longitude).
//
// Go Learning Note - Value Types vs Reference Types:
// Location is a small, immutable data holder passed by value. It is only 16
// bytes (two float64s), so copying it is cheaper than chasing a pointer.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewLocation creates a Location value from latitude and longitude.
func NewLocation(lat, lon float64) Location {
	return Location{
		Latitude:  lat,
		Longitude: lon,
	}
}

// LocationPoint is one named point feature from the static geo dataset (a
// police station, in this application). Points are loaded once at startup and
// never mutated afterwards; Properties holds the feature's raw GeoJSON
// properties untouched.
type LocationPoint struct {
	Name       string         `json:"name,omitempty"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Coordinates returns the point as a Location.
func (p LocationPoint) Coordinates() Location {
	return NewLocation(p.Latitude, p.Longitude)
}

// RankedCandidate is a LocationPoint paired with its straight-line (haversine)
// distance from the query point. Created per query.
type RankedCandidate struct {
	LocationPoint
	DistanceKm float64 `json:"distance_km"`
}

// ResolvedCandidate adds the travel metrics reported by the distance-matrix
// provider. Both travel fields are +Inf when the provider could not route to
// the candidate; +Inf sorts after every finite value.
type ResolvedCandidate struct {
	RankedCandidate
	TravelDistanceKm float64
	TravelTimeMin    float64
}

// Unreachable returns a candidate carrying the +Inf sentinel.
func Unreachable(c RankedCandidate) ResolvedCandidate {
	return ResolvedCandidate{
		RankedCandidate:  c,
		TravelDistanceKm: math.Inf(1),
		TravelTimeMin:    math.Inf(1),
	}
}

// Reachable reports whether the provider produced a route for the candidate.
func (c ResolvedCandidate) Reachable() bool {
	return !math.IsInf(c.TravelTimeMin, 1) && !math.IsInf(c.TravelDistanceKm, 1)
}

// MarshalJSON encodes the +Inf sentinel as null. encoding/json refuses to
// encode infinities, so the sentinel has to be translated at the edge.
func (c ResolvedCandidate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name             string         `json:"name,omitempty"`
		Latitude         float64        `json:"latitude"`
		Longitude        float64        `json:"longitude"`
		DistanceKm       float64        `json:"distance_km"`
		TravelDistanceKm *float64       `json:"travel_distance_km"`
		TravelTimeMin    *float64       `json:"travel_time_min"`
		Reachable        bool           `json:"reachable"`
		Properties       map[string]any `json:"properties,omitempty"`
	}{
		Name:             c.Name,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		DistanceKm:       c.DistanceKm,
		TravelDistanceKm: finiteOrNil(c.TravelDistanceKm),
		TravelTimeMin:    finiteOrNil(c.TravelTimeMin),
		Reachable:        c.Reachable(),
		Properties:       c.Properties,
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
