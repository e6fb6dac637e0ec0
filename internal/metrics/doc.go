// Package metrics provides Prometheus metrics for the tracker.
//
// Key metrics:
//   - Tick outcomes per object (ok, fetch_error, malformed, non_positive_interval, store_error)
//   - Latest ground-track speed and trajectory length per object
//   - Feed fetch latency
//   - Updates dropped by the publish queue
//
// All methods are safe on a nil *Collector, which records nothing.
package metrics
