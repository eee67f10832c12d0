package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"policeapp/internal/domain/entities"
)

// DatasetLoadError reports a missing or malformed dataset file. It is fatal at
// startup: the process must not serve traffic without a dataset.
type DatasetLoadError struct {
	Path string
	Err  error
}

func (e *DatasetLoadError) Error() string {
	return fmt.Sprintf("load dataset %q: %v", e.Path, e.Err)
}

func (e *DatasetLoadError) Unwrap() error { return e.Err }

// Dataset is an immutable snapshot of the point features. Once built it is
// only ever read, so it can be shared by concurrent requests without locking.
type Dataset struct {
	points   []entities.LocationPoint
	source   string
	loadedAt time.Time
}

// NewDataset builds a snapshot from points. The slice is copied so later
// changes by the caller are not observed.
func NewDataset(source string, points []entities.LocationPoint) *Dataset {
	cp := make([]entities.LocationPoint, len(points))
	copy(cp, points)
	return &Dataset{points: cp, source: source, loadedAt: time.Now()}
}

// Points returns the dataset's points in file order. The returned slice is
// shared; callers must treat it as read-only.
func (d *Dataset) Points() []entities.LocationPoint { return d.points }

func (d *Dataset) Len() int { return len(d.points) }

func (d *Dataset) Source() string { return d.source }

func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

// LoadDataset reads a GeoJSON file of Point features. Both a FeatureCollection
// and a bare JSON array of Features are accepted. Every feature must carry a
// Point geometry ([longitude, latitude]); properties.name is optional.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DatasetLoadError{Path: path, Err: err}
	}
	features, err := decodeFeatures(data)
	if err != nil {
		return nil, &DatasetLoadError{Path: path, Err: err}
	}

	points := make([]entities.LocationPoint, 0, len(features))
	for i, f := range features {
		if f == nil || f.Geometry == nil {
			return nil, &DatasetLoadError{Path: path, Err: fmt.Errorf("feature %d: missing geometry", i)}
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, &DatasetLoadError{Path: path, Err: fmt.Errorf("feature %d: geometry %s is not a Point", i, f.Geometry.GeoJSONType())}
		}
		points = append(points, entities.LocationPoint{
			Name:       propertyString(f.Properties, "name"),
			Latitude:   pt.Lat(),
			Longitude:  pt.Lon(),
			Properties: copyProperties(f.Properties),
		})
	}

	return &Dataset{points: points, source: path, loadedAt: time.Now()}, nil
}

func decodeFeatures(data []byte) ([]*geojson.Feature, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		features := make([]*geojson.Feature, 0, len(raw))
		for i, r := range raw {
			f, err := geojson.UnmarshalFeature(r)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			features = append(features, f)
		}
		return features, nil
	}
	fc, err := geojson.UnmarshalFeatureCollection(trimmed)
	if err != nil {
		return nil, err
	}
	return fc.Features, nil
}

func propertyString(p geojson.Properties, key string) string {
	if p == nil {
		return ""
	}
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

func copyProperties(p geojson.Properties) map[string]any {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DatasetStore holds the current snapshot behind an atomic pointer. Reload
// builds a complete new snapshot before swapping it in, so readers see either
// the old or the new dataset and never a partially loaded one.
type DatasetStore struct {
	path    string
	current atomic.Pointer[Dataset]
}

// OpenDatasetStore loads path and returns a store serving it.
func OpenDatasetStore(path string) (*DatasetStore, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	s := &DatasetStore{path: path}
	s.current.Store(ds)
	return s, nil
}

// NewDatasetStore wraps an already built snapshot. Reload re-reads path.
func NewDatasetStore(path string, ds *Dataset) *DatasetStore {
	s := &DatasetStore{path: path}
	s.current.Store(ds)
	return s
}

// Snapshot returns the dataset currently being served.
func (s *DatasetStore) Snapshot() *Dataset {
	return s.current.Load()
}

// Reload re-reads the dataset file. On failure the previous snapshot stays in
// place and the error is returned.
func (s *DatasetStore) Reload() (*Dataset, error) {
	ds, err := LoadDataset(s.path)
	if err != nil {
		return nil, err
	}
	s.current.Store(ds)
	return ds, nil
}
