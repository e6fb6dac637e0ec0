// Package sampler converts one raw feed payload into a typed position sample.
//
// Latitude and longitude may arrive as JSON numbers or numeric strings (the
// open-notify feed sends strings); the timestamp is integer epoch seconds.
// Anything missing, unparseable, non-finite or out of range is rejected with
// a *MalformedSampleError and the tick should be skipped.
package sampler
