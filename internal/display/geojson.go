package display

import "github.com/rickgao/orbit-tracker/internal/model"

// Feature is a GeoJSON feature with a LineString geometry.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   LineString        `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// LineString holds [longitude, latitude] positions in GeoJSON axis order.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// FeatureProperties carries the per-vertex values that GeoJSON has no
// geometry slot for. Index i belongs to Coordinates[i].
type FeatureProperties struct {
	Object     string    `json:"object"`
	Timestamps []int64   `json:"timestamps"`
	Speeds     []float64 `json:"speeds"`
}

// ToGeoJSON converts a trajectory into a LineString feature. Empty
// trajectories give an empty coordinate list, not null.
func ToGeoJSON(object string, t model.Trajectory) Feature {
	f := Feature{
		Type: "Feature",
		Geometry: LineString{
			Type:        "LineString",
			Coordinates: make([][2]float64, 0, t.Len()),
		},
		Properties: FeatureProperties{
			Object:     object,
			Timestamps: make([]int64, 0, t.Len()),
			Speeds:     make([]float64, 0, t.Len()),
		},
	}
	for _, s := range t.Samples {
		f.Geometry.Coordinates = append(f.Geometry.Coordinates, [2]float64{s.Longitude, s.Latitude})
		f.Properties.Timestamps = append(f.Properties.Timestamps, s.Timestamp)
		f.Properties.Speeds = append(f.Properties.Speeds, s.Speed)
	}
	return f
}
