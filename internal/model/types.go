package model

import "time"

// PositionSample is one timestamped observation of a tracked object.
type PositionSample struct {
	Latitude  float64 `json:"latitude"`  // [-90, 90]
	Longitude float64 `json:"longitude"` // [-180, 180]
	Timestamp int64   `json:"timestamp"` // epoch seconds
	Speed     float64 `json:"speed"`     // km/s, ground-track speed ending at this sample
}

// Time returns the sample timestamp as a UTC time.
func (s PositionSample) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// Trajectory is the ordered history of samples for one tracked object.
//
// Samples are in insertion order, which is also strictly increasing
// timestamp order. A Trajectory is a value: the estimator returns a new one
// on every append and never writes into a caller's backing array.
type Trajectory struct {
	Samples []PositionSample `json:"samples"`
}

// Len returns the number of samples.
func (t Trajectory) Len() int {
	return len(t.Samples)
}

// IsEmpty reports whether no sample has been recorded yet.
func (t Trajectory) IsEmpty() bool {
	return len(t.Samples) == 0
}

// Clone returns a deep copy of the trajectory.
func (t Trajectory) Clone() Trajectory {
	if t.Samples == nil {
		return Trajectory{}
	}
	samples := make([]PositionSample, len(t.Samples))
	copy(samples, t.Samples)
	return Trajectory{Samples: samples}
}
