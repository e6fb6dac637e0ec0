package sampler

import "fmt"

// MalformedSampleError reports a payload field that is missing, unparseable
// or out of range. It is never retryable: the same payload fails the same way.
type MalformedSampleError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedSampleError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("malformed sample: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed sample: %s %s: %s", e.Field, e.Value, e.Reason)
}
