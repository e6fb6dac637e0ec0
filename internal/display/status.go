package display

import (
	"fmt"
	"strconv"

	"github.com/rickgao/orbit-tracker/internal/model"
	"github.com/rickgao/orbit-tracker/internal/trajectory"
)

// StatusTimeLayout is the UTC time layout used in status lines.
const StatusTimeLayout = "2006-01-02 15:04:05"

// FormatStatus describes the latest sample of t, for example:
//
//	UTC time: 2024-01-15 12:35:29, latitude: 10.5, longitude: 20.5, speed: 0.265 km/s
//
// Speed is shown as "-" until a second sample exists.
// Returns trajectory.ErrEmptyTrajectory if t has no samples.
func FormatStatus(t model.Trajectory) (string, error) {
	latest, err := trajectory.Latest(t)
	if err != nil {
		return "", err
	}
	speed := "-"
	if t.Len() > 1 {
		speed = strconv.FormatFloat(latest.Speed, 'f', 3, 64)
	}
	return formatSample(latest, speed), nil
}

// formatSample formats one sample with an already rendered speed.
func formatSample(s model.PositionSample, speed string) string {
	return fmt.Sprintf("UTC time: %s, latitude: %s, longitude: %s, speed: %s km/s",
		s.Time().Format(StatusTimeLayout),
		strconv.FormatFloat(s.Latitude, 'f', -1, 64),
		strconv.FormatFloat(s.Longitude, 'f', -1, 64),
		speed,
	)
}
