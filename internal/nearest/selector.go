// Package nearest implements the nearest-location pipeline: a haversine
// pre-filter over the whole dataset, one batched travel-time lookup for the
// survivors, and a merge that picks the best match by travel time.
package nearest

import (
	"sort"

	"policeapp/internal/domain/entities"
	"policeapp/internal/geo"
)

// DefaultLimit is the number of straight-line candidates forwarded to the
// travel-time provider when no limit is configured.
const DefaultLimit = 25

// Select computes the haversine distance from (lat, lon) to every point and
// returns them ordered by ascending distance. Ties keep dataset order. At most
// limit candidates are returned; limit <= 0 returns all of them. points is not
// modified.
func Select(points []entities.LocationPoint, lat, lon float64, limit int) []entities.RankedCandidate {
	ranked := make([]entities.RankedCandidate, len(points))
	for i, p := range points {
		ranked[i] = entities.RankedCandidate{
			LocationPoint: p,
			DistanceKm:    geo.Haversine(lat, lon, p.Latitude, p.Longitude),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
