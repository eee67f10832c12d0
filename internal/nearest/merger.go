package nearest

import (
	"sort"

	"policeapp/internal/domain/entities"
)

// Best returns the candidate with the smallest travel time. On ties the first
// occurrence wins, so when every candidate is unreachable the first one (the
// nearest in straight-line distance) is returned with Reachable() == false.
// ok is false only for an empty slice.
func Best(resolved []entities.ResolvedCandidate) (best entities.ResolvedCandidate, ok bool) {
	if len(resolved) == 0 {
		return entities.ResolvedCandidate{}, false
	}
	best = resolved[0]
	for _, c := range resolved[1:] {
		if c.TravelTimeMin < best.TravelTimeMin {
			best = c
		}
	}
	return best, true
}

// RankByTravelTime returns a copy of resolved sorted by ascending travel time.
// Unreachable candidates sort last, in their original order.
func RankByTravelTime(resolved []entities.ResolvedCandidate) []entities.ResolvedCandidate {
	out := make([]entities.ResolvedCandidate, len(resolved))
	copy(out, resolved)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TravelTimeMin < out[j].TravelTimeMin
	})
	return out
}
