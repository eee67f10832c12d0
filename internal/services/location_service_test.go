package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"policeapp/internal/config"
	"policeapp/internal/distancematrix"
	"policeapp/internal/domain/entities"
	"policeapp/internal/geo"
	"policeapp/internal/nearest"
)

func TestLocationService_Nearest(t *testing.T) {
	svc := setupLocationService(stations(), &fakeMatrix{minutes: []float64{10, 5}})

	best, err := svc.Nearest(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "B", best.Name)
	assert.Equal(t, 5.0, best.TravelTimeMin)
	assert.True(t, best.Reachable())
}

func TestLocationService_AllUnreachable(t *testing.T) {
	svc := setupLocationService(stations(), &fakeMatrix{minutes: nil})

	best, err := svc.Nearest(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "A", best.Name)
	assert.False(t, best.Reachable())
}

func TestLocationService_Errors(t *testing.T) {
	tests := []struct {
		name     string
		points   []entities.LocationPoint
		provider *fakeMatrix
		check    func(t *testing.T, err error)
	}{
		{
			name:     "empty dataset",
			points:   nil,
			provider: &fakeMatrix{},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, nearest.ErrNoCandidates)
			},
		},
		{
			name:     "zero results",
			points:   stations(),
			provider: &fakeMatrix{status: "ZERO_RESULTS"},
			check: func(t *testing.T, err error) {
				var pe *distancematrix.ProviderError
				assert.True(t, errors.As(err, &pe))
			},
		},
		{
			name:     "timeout",
			points:   stations(),
			provider: &fakeMatrix{err: distancematrix.ErrUpstreamTimeout},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, distancematrix.ErrUpstreamTimeout)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setupLocationService(tt.points, tt.provider)
			_, err := svc.Nearest(context.Background(), 0, 0)
			require.Error(t, err)
			tt.check(t, err)
		})
	}

	p := &fakeMatrix{}
	svc := setupLocationService(nil, p)
	_, _ = svc.Nearest(context.Background(), 0, 0)
	assert.Zero(t, p.calls, "empty dataset must not reach the provider")
}

// deadlineProvider blocks until the context is done, like a hung upstream.
type deadlineProvider struct{ deadline time.Time }

func (d *deadlineProvider) Matrix(ctx context.Context, origin entities.Location, destinations []entities.Location) (*distancematrix.Response, error) {
	d.deadline, _ = ctx.Deadline()
	<-ctx.Done()
	return nil, distancematrix.ErrUpstreamTimeout
}

func TestLocationService_AppliesProviderTimeout(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Location.ProviderTimeout = 20 * time.Millisecond
	p := &deadlineProvider{}
	svc := NewLocationService(
		geo.NewDatasetStore("", geo.NewDataset("test", stations())),
		nearest.NewResolver(p, nil),
		cfg.Location,
		zap.NewNop(),
	)

	start := time.Now()
	_, err := svc.Nearest(context.Background(), 0, 0)
	assert.ErrorIs(t, err, distancematrix.ErrUpstreamTimeout)
	assert.False(t, p.deadline.IsZero())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLocationService_CandidateLimit(t *testing.T) {
	points := append(stations(), entities.LocationPoint{Name: "C", Latitude: 3, Longitude: 3})
	p := &fakeMatrix{minutes: []float64{1, 1, 1}}
	svc := setupLocationService(points, p)
	svc.cfg.CandidateLimit = 2

	got := svc.Candidates(context.Background(), 0, 0, 0)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)

	all := svc.Candidates(context.Background(), 0, 0, 10)
	assert.Len(t, all, 3)
}

func TestLocationService_ReloadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.geojson")
	write := func(body string) {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	write(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"name":"A"}}]}`)

	store, err := geo.OpenDatasetStore(path)
	require.NoError(t, err)
	cfg := config.NewDefaultConfig()
	svc := NewLocationService(store, nearest.NewResolver(&fakeMatrix{}, nil), cfg.Location, zap.NewNop())
	assert.Equal(t, 1, svc.DatasetSize())

	write(`[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"name":"A"}},
	        {"type":"Feature","geometry":{"type":"Point","coordinates":[2,2]},"properties":{"name":"B"}}]`)
	ds, err := svc.ReloadDataset()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 2, svc.DatasetSize())

	write(`{broken`)
	_, err = svc.ReloadDataset()
	var loadErr *geo.DatasetLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, svc.DatasetSize(), "failed reload keeps serving the old dataset")
}
