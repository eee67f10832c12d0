package geo

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policeapp/internal/domain/entities"
)

const stationsCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [77.5946, 12.9716]}, "properties": {"name": "Central Station", "phone": "100"}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [77.6101, 12.9352]}, "properties": {}}
  ]
}`

const stationsArray = `[
  {"type": "Feature", "geometry": {"type": "Point", "coordinates": [1.0, 2.0]}, "properties": {"name": "A"}}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locations.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDataset_FeatureCollection(t *testing.T) {
	ds, err := LoadDataset(writeFile(t, stationsCollection))
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	first := ds.Points()[0]
	assert.Equal(t, "Central Station", first.Name)
	assert.Equal(t, 12.9716, first.Latitude)
	assert.Equal(t, 77.5946, first.Longitude)
	assert.Equal(t, "100", first.Properties["phone"])

	second := ds.Points()[1]
	assert.Empty(t, second.Name)
	assert.Equal(t, 12.9352, second.Latitude)
}

func TestLoadDataset_FeatureArray(t *testing.T) {
	ds, err := LoadDataset(writeFile(t, stationsArray))
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "A", ds.Points()[0].Name)
	assert.Equal(t, 2.0, ds.Points()[0].Latitude)
	assert.Equal(t, 1.0, ds.Points()[0].Longitude)
}

func TestLoadDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"not json", "not json"},
		{"polygon geometry", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{}}]}`},
		{"null geometry", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":null,"properties":{}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDataset(writeFile(t, tt.content))
			var loadErr *DatasetLoadError
			require.ErrorAs(t, err, &loadErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDataset(filepath.Join(t.TempDir(), "nope.geojson"))
		var loadErr *DatasetLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestNewDataset_CopiesInput(t *testing.T) {
	points := []entities.LocationPoint{{Name: "A"}}
	ds := NewDataset("test", points)
	points[0].Name = "changed"
	assert.Equal(t, "A", ds.Points()[0].Name)
}

func TestDatasetStore_Reload(t *testing.T) {
	path := writeFile(t, stationsArray)
	store, err := OpenDatasetStore(path)
	require.NoError(t, err)
	before := store.Snapshot()
	require.Equal(t, 1, before.Len())

	require.NoError(t, os.WriteFile(path, []byte(stationsCollection), 0o600))
	after, err := store.Reload()
	require.NoError(t, err)
	assert.Equal(t, 2, after.Len())
	assert.Same(t, after, store.Snapshot())
	// Readers holding the old snapshot keep a consistent view.
	assert.Equal(t, 1, before.Len())

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))
	_, err = store.Reload()
	require.Error(t, err)
	assert.Same(t, after, store.Snapshot(), "failed reload must keep the previous snapshot")
}

func TestDatasetStore_ConcurrentReads(t *testing.T) {
	path := writeFile(t, stationsCollection)
	store, err := OpenDatasetStore(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n := store.Snapshot().Len()
				if n != 2 {
					t.Errorf("snapshot length = %d, want 2", n)
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := store.Reload()
		require.NoError(t, err)
	}
	wg.Wait()
}
