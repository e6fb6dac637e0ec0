package trajectory

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rickgao/orbit-tracker/internal/model"
)

func TestOrbitRadius(t *testing.T) {
	if got := OrbitRadius(6371, 408); got != 6779 {
		t.Errorf("OrbitRadius(6371, 408) = %v, want 6779", got)
	}
	if DefaultOrbitRadius != 6779 {
		t.Errorf("DefaultOrbitRadius = %v, want 6779", DefaultOrbitRadius)
	}
}

func TestEstimator_SeedAppendReject(t *testing.T) {
	e := NewEstimator(OrbitRadius(6371, 408))

	// Seed.
	tr, speed, err := e.Append(model.Trajectory{}, model.PositionSample{Latitude: 10.0, Longitude: 20.0, Timestamp: 1000})
	if err != nil {
		t.Fatalf("seed: unexpected error: %v", err)
	}
	if tr.Len() != 1 {
		t.Fatalf("seed: Len() = %d, want 1", tr.Len())
	}
	if speed != 0 || tr.Samples[0].Speed != 0 {
		t.Errorf("seed: speed = %v, sample speed = %v, want 0", speed, tr.Samples[0].Speed)
	}

	// One second later: 6779*pi*sqrt(0.001^2+0.002^2)/180 = 0.26456... km in 1 s.
	tr, speed, err = e.Append(tr, model.PositionSample{Latitude: 10.001, Longitude: 20.002, Timestamp: 1001})
	if err != nil {
		t.Fatalf("second sample: unexpected error: %v", err)
	}
	if tr.Len() != 2 {
		t.Fatalf("second sample: Len() = %d, want 2", tr.Len())
	}
	if speed != 0.265 {
		t.Errorf("speed = %v, want 0.265", speed)
	}
	if tr.Samples[1].Speed != 0.265 {
		t.Errorf("sample speed = %v, want 0.265", tr.Samples[1].Speed)
	}

	// Duplicate timestamp.
	before := tr
	tr, _, err = e.Append(tr, model.PositionSample{Latitude: 10.002, Longitude: 20.004, Timestamp: 1001})
	var interval *NonPositiveIntervalError
	if !errors.As(err, &interval) {
		t.Fatalf("duplicate timestamp: error = %v, want *NonPositiveIntervalError", err)
	}
	if interval.Previous != 1001 || interval.Current != 1001 {
		t.Errorf("interval = %+v, want Previous=1001 Current=1001", interval)
	}
	if tr.Len() != 2 {
		t.Errorf("duplicate timestamp: Len() = %d, want 2", tr.Len())
	}
	if &tr.Samples[0] != &before.Samples[0] {
		t.Error("rejected append should return the input trajectory")
	}
}

func TestEstimator_SeedIgnoresIncomingSpeed(t *testing.T) {
	e := NewEstimator(DefaultOrbitRadius)

	tr, _, err := e.Append(model.Trajectory{}, model.PositionSample{Latitude: 1, Longitude: 2, Timestamp: 5, Speed: 7.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Samples[0].Speed != 0 {
		t.Errorf("seed Speed = %v, want 0", tr.Samples[0].Speed)
	}
}

func TestEstimator_NonPositiveInterval(t *testing.T) {
	e := NewEstimator(DefaultOrbitRadius)
	seed := model.Trajectory{Samples: []model.PositionSample{{Latitude: 0, Longitude: 0, Timestamp: 2000}}}

	tests := []struct {
		name string
		ts   int64
	}{
		{"equal", 2000},
		{"earlier", 1999},
		{"much earlier", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, speed, err := e.Append(seed, model.PositionSample{Latitude: 1, Longitude: 1, Timestamp: tt.ts})
			var interval *NonPositiveIntervalError
			if !errors.As(err, &interval) {
				t.Fatalf("error = %v, want *NonPositiveIntervalError", err)
			}
			if speed != 0 {
				t.Errorf("speed = %v, want 0 on error", speed)
			}
			if got.Len() != 1 {
				t.Errorf("Len() = %d, want 1", got.Len())
			}
		})
	}
}

func TestEstimator_DoesNotWriteCallerBackingArray(t *testing.T) {
	e := NewEstimator(DefaultOrbitRadius)

	backing := make([]model.PositionSample, 1, 4)
	backing[0] = model.PositionSample{Latitude: 0, Longitude: 0, Timestamp: 100}
	prior := model.Trajectory{Samples: backing}

	a, _, err := e.Append(prior, model.PositionSample{Latitude: 0.1, Longitude: 0, Timestamp: 110})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _, err := e.Append(prior, model.PositionSample{Latitude: 0.2, Longitude: 0, Timestamp: 120})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Samples[1].Timestamp != 110 {
		t.Errorf("first branch overwritten: Timestamp = %d, want 110", a.Samples[1].Timestamp)
	}
	if b.Samples[1].Timestamp != 120 {
		t.Errorf("second branch Timestamp = %d, want 120", b.Samples[1].Timestamp)
	}
	if backing[:cap(backing)][1].Timestamp != 0 {
		t.Error("caller backing array was written")
	}
}

func TestEstimator_Speed(t *testing.T) {
	e := NewEstimator(DefaultOrbitRadius)

	tests := []struct {
		name string
		prev model.PositionSample
		cur  model.PositionSample
		want float64
	}{
		{
			name: "stationary",
			prev: model.PositionSample{Latitude: 5, Longitude: 5, Timestamp: 10},
			cur:  model.PositionSample{Latitude: 5, Longitude: 5, Timestamp: 20},
			want: 0,
		},
		{
			// 0.1 deg lat, 0.6 deg lon in 10 s: typical ISS step.
			name: "ten second step",
			prev: model.PositionSample{Latitude: 51.5, Longitude: -10.6, Timestamp: 1000},
			cur:  model.PositionSample{Latitude: 51.6, Longitude: -10.0, Timestamp: 1010},
			want: 7.197,
		},
		{
			name: "direction does not matter",
			prev: model.PositionSample{Latitude: 51.6, Longitude: -10.0, Timestamp: 1000},
			cur:  model.PositionSample{Latitude: 51.5, Longitude: -10.6, Timestamp: 1010},
			want: 7.197,
		},
		{
			// One degree of arc on the 6779 km sphere over 60 s.
			name: "one degree per minute",
			prev: model.PositionSample{Latitude: 0, Longitude: 0, Timestamp: 0},
			cur:  model.PositionSample{Latitude: 1, Longitude: 0, Timestamp: 60},
			want: 1.972,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Speed(tt.prev, tt.cur)
			if err != nil {
				t.Fatalf("Speed() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Speed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEstimator_Properties(t *testing.T) {
	e := NewEstimator(DefaultOrbitRadius)
	rng := rand.New(rand.NewPCG(1, 2))

	var tr model.Trajectory
	ts := int64(1_700_000_000)

	for i := 0; i < 500; i++ {
		ts += 1 + rng.Int64N(30)
		s := model.PositionSample{
			Latitude:  rng.Float64()*180 - 90,
			Longitude: rng.Float64()*360 - 180,
			Timestamp: ts,
		}

		next, speed, err := e.Append(tr, s)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if next.Len() != tr.Len()+1 {
			t.Fatalf("step %d: Len() = %d, want %d", i, next.Len(), tr.Len()+1)
		}
		if speed < 0 || math.IsNaN(speed) {
			t.Fatalf("step %d: speed = %v, want non-negative", i, speed)
		}
		if speed != math.Round(speed*1000)/1000 {
			t.Fatalf("step %d: speed %v not rounded to 3 decimals", i, speed)
		}

		if i > 0 {
			again, err := e.Speed(tr.Samples[tr.Len()-1], s)
			if err != nil || again != speed {
				t.Fatalf("step %d: Speed() = %v, %v; want %v (deterministic)", i, again, err, speed)
			}
		}
		tr = next
	}

	for i := 1; i < tr.Len(); i++ {
		if tr.Samples[i].Timestamp <= tr.Samples[i-1].Timestamp {
			t.Fatalf("trajectory not sorted at %d", i)
		}
	}
}

func TestLatest(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if _, err := Latest(model.Trajectory{}); !errors.Is(err, ErrEmptyTrajectory) {
			t.Errorf("Latest() error = %v, want ErrEmptyTrajectory", err)
		}
		if _, err := LatestSpeed(model.Trajectory{}); !errors.Is(err, ErrEmptyTrajectory) {
			t.Errorf("LatestSpeed() error = %v, want ErrEmptyTrajectory", err)
		}
	})

	t.Run("seeded", func(t *testing.T) {
		tr := model.Trajectory{Samples: []model.PositionSample{
			{Timestamp: 1},
			{Timestamp: 2, Speed: 7.66},
		}}
		s, err := Latest(tr)
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if s.Timestamp != 2 {
			t.Errorf("Timestamp = %d, want 2", s.Timestamp)
		}
		speed, err := LatestSpeed(tr)
		if err != nil || speed != 7.66 {
			t.Errorf("LatestSpeed() = %v, %v; want 7.66", speed, err)
		}
	})
}

func TestNonPositiveIntervalError_Error(t *testing.T) {
	err := &NonPositiveIntervalError{Previous: 1001, Current: 1000}
	want := "non-positive interval: timestamp 1000 does not follow 1001 (dt=-1s)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
