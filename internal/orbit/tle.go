// Package orbit computes sub-satellite points from two-line element sets.
package orbit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/rickgao/orbit-tracker/internal/sampler"
)

// TLESource propagates a TLE with SGP4 to the current time on every fetch.
type TLESource struct {
	sat satellite.Satellite
	now func() time.Time
}

// Option configures a TLESource.
type Option func(*TLESource)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *TLESource) {
		s.now = now
	}
}

// NewTLESource parses the two element lines.
func NewTLESource(line1, line2 string, opts ...Option) (*TLESource, error) {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	if err := checkLine(line1, '1'); err != nil {
		return nil, fmt.Errorf("line 1: %w", err)
	}
	if err := checkLine(line2, '2'); err != nil {
		return nil, fmt.Errorf("line 2: %w", err)
	}

	s := &TLESource{
		sat: satellite.TLEToSat(line1, line2, satellite.GravityWGS84),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func checkLine(line string, number byte) error {
	if len(line) != 69 {
		return fmt.Errorf("length %d, want 69", len(line))
	}
	if line[0] != number || line[1] != ' ' {
		return fmt.Errorf("must start with %q", string(number)+" ")
	}
	return nil
}

// Position returns the geodetic sub-satellite point at t, in degrees, with
// longitude normalised to [-180, 180].
func (s *TLESource) Position(t time.Time) (lat, lon float64, err error) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	pos, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
		return 0, 0, errors.New("sgp4 propagation diverged")
	}

	gmst := satellite.GSTimeFromDate(year, int(month), day, hour, min, sec)
	_, _, ll := satellite.ECIToLLA(pos, gmst)

	lat = ll.Latitude * 180 / math.Pi
	lon = normalizeLongitude(ll.Longitude * 180 / math.Pi)
	return lat, lon, nil
}

// Fetch propagates to the current clock time, truncated to the second.
func (s *TLESource) Fetch(ctx context.Context) (sampler.Payload, error) {
	if err := ctx.Err(); err != nil {
		return sampler.Payload{}, err
	}

	now := s.now().UTC().Truncate(time.Second)
	lat, lon, err := s.Position(now)
	if err != nil {
		return sampler.Payload{}, err
	}
	return sampler.NewPayload(lat, lon, now.Unix()), nil
}

func normalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
