package memory

import (
	"context"
	"sort"
	"sync"

	"policeapp/internal/domain/entities"
	"policeapp/internal/repository"
)

// ReportRepository stores crime reports with two secondary indices:
//   - byUser: userID → reports in insertion order (history)
//   - geohashIndex: geohash → reportID → report (spatial lookup)
//
// Both indices are written under the same lock as the primary map.
type ReportRepository struct {
	mu           sync.RWMutex
	reports      map[string]*entities.Report
	byUser       map[int64][]*entities.Report
	geohashIndex map[string]map[string]*entities.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		reports:      make(map[string]*entities.Report),
		byUser:       make(map[int64][]*entities.Report),
		geohashIndex: make(map[string]map[string]*entities.Report),
	}
}

func (r *ReportRepository) Create(ctx context.Context, report *entities.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[report.ID]; exists {
		return repository.ErrConflict
	}
	r.reports[report.ID] = report
	r.byUser[report.UserID] = append(r.byUser[report.UserID], report)

	if _, exists := r.geohashIndex[report.Geohash]; !exists {
		r.geohashIndex[report.Geohash] = make(map[string]*entities.Report)
	}
	r.geohashIndex[report.Geohash][report.ID] = report
	return nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Reverse insertion order first so reports with equal timestamps still
	// come out latest-insert first after the stable sort.
	src := r.byUser[userID]
	out := make([]*entities.Report, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListInCells walks the geohash index and keeps every cell that falls under
// one of the prefixes. The index is keyed by full-precision geohash, so this
// is O(cells) rather than O(reports).
func (r *ReportRepository) ListInCells(ctx context.Context, cells []string) ([]*entities.Report, error) {
	if len(cells) == 0 {
		return nil, nil
	}
	prefixLen := len(cells[0])
	wanted := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		wanted[c] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Report
	for gh, reports := range r.geohashIndex {
		if len(gh) < prefixLen {
			continue
		}
		if _, ok := wanted[gh[:prefixLen]]; !ok {
			continue
		}
		for _, rep := range reports {
			out = append(out, rep)
		}
	}
	return out, nil
}
