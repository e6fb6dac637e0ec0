// Package poller drives the sampling pipeline on a fixed interval.
//
// Each tick, for every tracked object:
//   - fetches a raw payload from the object's feed (bounded by a timeout)
//   - parses it into a position sample
//   - loads the stored trajectory, appends the sample, saves the result
//   - records metrics and hands an update to the publisher
//
// A failed step skips the object for this tick and leaves its trajectory
// untouched. Nothing a single tick does stops the poller.
package poller
