package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"policeapp/internal/config"
	"policeapp/internal/domain/entities"
	"policeapp/internal/geo"
	"policeapp/internal/metrics"
	"policeapp/internal/nearest"
)

// LocationService runs the nearest-station pipeline against the dataset
// currently held by the store: straight-line pre-filter, one batched
// travel-time lookup, best match by travel time.
type LocationService struct {
	datasets *geo.DatasetStore
	resolver *nearest.Resolver
	cfg      config.LocationConfig
	log      *zap.Logger
}

func NewLocationService(
	datasets *geo.DatasetStore,
	resolver *nearest.Resolver,
	cfg config.LocationConfig,
	log *zap.Logger,
) *LocationService {
	metrics.DatasetPoints.Set(float64(datasets.Snapshot().Len()))
	return &LocationService{
		datasets: datasets,
		resolver: resolver,
		cfg:      cfg,
		log:      log,
	}
}

// Nearest returns the location with the shortest travel time from (lat, lon).
//
// When the provider could route to none of the candidates the straight-line
// nearest one is returned with Reachable() == false; callers must check it
// before presenting travel figures. Errors: nearest.ErrNoCandidates for an
// empty dataset, *distancematrix.ProviderError, *distancematrix.ParseError
// and distancematrix.ErrUpstreamTimeout from the provider.
func (s *LocationService) Nearest(ctx context.Context, lat, lon float64) (entities.ResolvedCandidate, error) {
	start := time.Now()
	ds := s.datasets.Snapshot()

	candidates := nearest.Select(ds.Points(), lat, lon, s.cfg.CandidateLimit)
	metrics.NearestCandidates.Observe(float64(len(candidates)))
	if len(candidates) == 0 {
		return entities.ResolvedCandidate{}, nearest.ErrNoCandidates
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
	defer cancel()

	resolved, err := s.resolver.Resolve(ctx, entities.NewLocation(lat, lon), candidates)
	if err != nil {
		s.log.Warn("nearest_resolve_failed",
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		return entities.ResolvedCandidate{}, err
	}

	best, ok := nearest.Best(resolved)
	if !ok {
		return entities.ResolvedCandidate{}, nearest.ErrNoCandidates
	}
	if !best.Reachable() {
		s.log.Warn("nearest_all_unreachable", zap.Int("candidates", len(resolved)))
	}
	s.log.Debug("nearest_resolved",
		zap.String("name", best.Name),
		zap.Float64("distance_km", best.DistanceKm),
		zap.Bool("reachable", best.Reachable()),
		zap.Duration("took", time.Since(start)),
	)
	return best, nil
}

// Candidates returns the straight-line ranking only; the provider is not
// called. limit <= 0 uses the configured candidate limit.
func (s *LocationService) Candidates(ctx context.Context, lat, lon float64, limit int) []entities.RankedCandidate {
	if limit <= 0 {
		limit = s.cfg.CandidateLimit
	}
	return nearest.Select(s.datasets.Snapshot().Points(), lat, lon, limit)
}

// ReloadDataset re-reads the dataset file and swaps it in. On error the
// current dataset keeps being served.
func (s *LocationService) ReloadDataset() (*geo.Dataset, error) {
	ds, err := s.datasets.Reload()
	if err != nil {
		var loadErr *geo.DatasetLoadError
		if errors.As(err, &loadErr) {
			s.log.Error("dataset_reload_failed", zap.String("path", loadErr.Path), zap.Error(loadErr.Err))
		}
		return nil, err
	}
	metrics.DatasetPoints.Set(float64(ds.Len()))
	s.log.Info("dataset_reloaded", zap.String("path", ds.Source()), zap.Int("points", ds.Len()))
	return ds, nil
}

// DatasetSize returns the number of points currently served.
func (s *LocationService) DatasetSize() int {
	return s.datasets.Snapshot().Len()
}
