package trajectory

import (
	"math"
	"slices"

	"github.com/rickgao/orbit-tracker/internal/model"
)

// Default orbit geometry, in kilometres.
const (
	EarthRadiusKM      = 6371.0
	DefaultAltitudeKM  = 408.0
	DefaultOrbitRadius = EarthRadiusKM + DefaultAltitudeKM
)

// OrbitRadius returns the sphere radius used for the distance proxy.
func OrbitRadius(earthRadiusKM, altitudeKM float64) float64 {
	return earthRadiusKM + altitudeKM
}

// Estimator appends samples to trajectories using a fixed orbit radius.
// The zero value is not usable; construct with NewEstimator.
type Estimator struct {
	radiusKM float64
}

// NewEstimator creates an estimator for the given orbit radius in km.
func NewEstimator(radiusKM float64) Estimator {
	return Estimator{radiusKM: radiusKM}
}

// RadiusKM returns the orbit radius the estimator was built with.
func (e Estimator) RadiusKM() float64 {
	return e.radiusKM
}

// Append adds s to t and returns the updated trajectory together with the
// speed written onto the new sample. The sample's incoming Speed is ignored.
//
// On error the returned trajectory is t itself and t is not modified.
func (e Estimator) Append(t model.Trajectory, s model.PositionSample) (model.Trajectory, float64, error) {
	return stateOf(t).append(e, t, s)
}

// Speed computes the ground-track speed from prev to cur in km/s, rounded
// to 3 decimals.
func (e Estimator) Speed(prev, cur model.PositionSample) (float64, error) {
	dt := cur.Timestamp - prev.Timestamp
	if dt <= 0 {
		return 0, &NonPositiveIntervalError{Previous: prev.Timestamp, Current: cur.Timestamp}
	}

	dLat := cur.Latitude - prev.Latitude
	dLon := cur.Longitude - prev.Longitude
	d := e.radiusKM * math.Pi * math.Sqrt(dLat*dLat+dLon*dLon) / 180

	return round3(d / float64(dt)), nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// state is the per-trajectory state machine. It is derived from the
// trajectory value on every call rather than tracked separately.
type state interface {
	append(e Estimator, t model.Trajectory, s model.PositionSample) (model.Trajectory, float64, error)
}

// empty: no predecessor exists, so the sample seeds the trajectory.
type empty struct{}

// seeded: last is the predecessor of the next sample.
type seeded struct {
	last model.PositionSample
}

func stateOf(t model.Trajectory) state {
	if t.IsEmpty() {
		return empty{}
	}
	return seeded{last: t.Samples[len(t.Samples)-1]}
}

func (empty) append(_ Estimator, t model.Trajectory, s model.PositionSample) (model.Trajectory, float64, error) {
	s.Speed = 0
	return extend(t, s), 0, nil
}

func (st seeded) append(e Estimator, t model.Trajectory, s model.PositionSample) (model.Trajectory, float64, error) {
	speed, err := e.Speed(st.last, s)
	if err != nil {
		return t, 0, err
	}
	s.Speed = speed
	return extend(t, s), speed, nil
}

// extend appends without writing into spare capacity of the caller's slice.
func extend(t model.Trajectory, s model.PositionSample) model.Trajectory {
	return model.Trajectory{Samples: append(slices.Clip(t.Samples), s)}
}

// Latest returns the newest sample.
func Latest(t model.Trajectory) (model.PositionSample, error) {
	if t.IsEmpty() {
		return model.PositionSample{}, ErrEmptyTrajectory
	}
	return t.Samples[len(t.Samples)-1], nil
}

// LatestSpeed returns the speed of the newest sample.
func LatestSpeed(t model.Trajectory) (float64, error) {
	s, err := Latest(t)
	if err != nil {
		return 0, err
	}
	return s.Speed, nil
}
