package trajectory

import (
	"errors"
	"fmt"
)

// ErrEmptyTrajectory is returned when querying a trajectory that was never seeded.
var ErrEmptyTrajectory = errors.New("trajectory is empty")

// NonPositiveIntervalError reports a sample whose timestamp does not advance
// past its predecessor (a duplicate or out-of-order feed reading).
type NonPositiveIntervalError struct {
	Previous int64
	Current  int64
}

func (e *NonPositiveIntervalError) Error() string {
	return fmt.Sprintf("non-positive interval: timestamp %d does not follow %d (dt=%ds)",
		e.Current, e.Previous, e.Current-e.Previous)
}
