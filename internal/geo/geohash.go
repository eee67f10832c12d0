// Package geo implements the geographic primitives of the service: haversine
// distance, geohash encoding used as a coarse spatial key for crime reports,
// and the loader for the static GeoJSON dataset of police stations.
//
// Go Learning Note: What is a Geohash?
// A geohash encodes a latitude/longitude pair into a short string. Nearby
// locations share a common prefix, so "reports near me" can be answered by
// looking up a handful of cells instead of computing distances against every
// stored report.
//
// Precision determines the cell size:
//
//	1 → ~5000 km    4 → ~39 km     7 → ~153 m
//	2 → ~1250 km    5 → ~5 km      8 → ~19 m
//	3 → ~156 km     6 → ~1.2 km    9 → ~2.4 m
package geo

import (
	"math"
	"strings"
)

// base32 is the geohash alphabet. 'a', 'i', 'l' and 'o' are excluded.
const (
	base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

	DefaultPrecision = 6
	maxPrecision     = 12
)

// Neighbor lookup tables keyed by direction and by hash-length parity. For an
// odd-length hash the last character carries three longitude bits and two
// latitude bits; for an even-length hash it is the other way round, which is
// why the odd tables are the even tables with n/e and s/w swapped.
var (
	base32Map = map[byte]int{}
	neighbors = map[string]map[byte]string{
		"n": {'e': "p0r21436x8zb9dcf5h7kjnmqesgutwvy", 'o': "bc01fg45238967deuvhjyznpkmstqrwx"},
		"s": {'e': "14365h7k9dcfesgujnmqp0r2twvyx8zb", 'o': "238967debc01fg45kmstqrwxuvhjyznp"},
		"e": {'e': "bc01fg45238967deuvhjyznpkmstqrwx", 'o': "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		"w": {'e': "238967debc01fg45kmstqrwxuvhjyznp", 'o': "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	borders = map[string]map[byte]string{
		"n": {'e': "prxz", 'o': "bcfguvyz"},
		"s": {'e': "028b", 'o': "0145hjnp"},
		"e": {'e': "bcfguvyz", 'o': "prxz"},
		"w": {'e': "0145hjnp", 'o': "028b"},
	}
)

func init() {
	for i := 0; i < len(base32); i++ {
		base32Map[base32[i]] = i
	}
}

// Encode converts latitude and longitude to a geohash string with the given
// precision. Out-of-range precisions are clamped to [1, 12]; zero or negative
// selects DefaultPrecision.
//
// Algorithm overview (binary interleaving):
//  1. Start with the full range: lat [-90, 90], lon [-180, 180]
//  2. Alternate between longitude (even bits) and latitude (odd bits)
//  3. For each step, bisect the range and set bit=1 if value >= midpoint
//  4. Every 5 bits are encoded as one base32 character
func Encode(lat, lon float64, precision int) string {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	if precision > maxPrecision {
		precision = maxPrecision
	}

	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0

	var hash strings.Builder
	isEven := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isEven {
			mid := (minLon + maxLon) / 2
			if lon >= mid {
				ch |= 1 << (4 - bit)
				minLon = mid
			} else {
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isEven = !isEven
		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String()
}

// Decode returns the centre of the cell encoded by hash. Characters outside
// the alphabet are skipped.
func Decode(hash string) (lat, lon float64) {
	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	isEven := true

	for i := 0; i < len(hash); i++ {
		cd, ok := base32Map[hash[i]]
		if !ok {
			continue
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isEven {
				mid := (minLon + maxLon) / 2
				if bit == 1 {
					minLon = mid
				} else {
					maxLon = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if bit == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isEven = !isEven
		}
	}

	lat = (minLat + maxLat) / 2
	lon = (minLon + maxLon) / 2
	return
}

// Neighbor returns the geohash of the adjacent cell in direction "n", "s", "e"
// or "w". When the last character sits on the border of its parent cell the
// parent is shifted first, recursively.
func Neighbor(hash string, direction string) string {
	if len(hash) == 0 {
		return ""
	}

	hash = strings.ToLower(hash)
	lastChar := hash[len(hash)-1]
	parent := hash[:len(hash)-1]

	var t byte = 'e'
	if len(hash)%2 == 1 {
		t = 'o'
	}

	if strings.IndexByte(borders[direction][t], lastChar) >= 0 && len(parent) > 0 {
		parent = Neighbor(parent, direction)
	}

	idx := strings.IndexByte(neighbors[direction][t], lastChar)
	if idx < 0 {
		return hash
	}
	return parent + string(base32[idx])
}

// AllNeighbors returns the cell itself followed by its 8 neighbours, a 3x3
// block. At precision 6 the block covers roughly 3.6 km x 2 km.
func AllNeighbors(hash string) []string {
	n := Neighbor(hash, "n")
	s := Neighbor(hash, "s")
	return []string{
		hash,
		n,
		s,
		Neighbor(hash, "e"),
		Neighbor(hash, "w"),
		Neighbor(n, "e"),
		Neighbor(n, "w"),
		Neighbor(s, "e"),
		Neighbor(s, "w"),
	}
}

// PrecisionForRadius picks the longest geohash whose 3x3 block still covers a
// circle of radiusKm around a query point at latitude lat. The block reaches
// one full cell beyond the centre cell in every direction, so both the cell
// height and the cell width must be at least radiusKm. Width shrinks with
// cos(latitude) and is measured at the highest latitude the circle reaches.
//
// Within roughly radiusKm of a pole no block covers the circle and 1 is
// returned.
func PrecisionForRadius(radiusKm, lat float64) int {
	kmPerDegree := EarthRadiusKm * math.Pi / 180
	edgeLat := math.Min(90, math.Abs(lat)+radiusKm/kmPerDegree)
	cosLat := math.Cos(edgeLat * math.Pi / 180)

	for p := maxPrecision; p > 1; p-- {
		bits := 5 * p
		lonBits := (bits + 1) / 2
		latBits := bits / 2
		height := 180 / math.Exp2(float64(latBits)) * kmPerDegree
		width := 360 / math.Exp2(float64(lonBits)) * kmPerDegree * cosLat
		if math.Min(height, width) >= radiusKm {
			return p
		}
	}
	return 1
}
