// Package trajectory accumulates position samples and derives ground-track
// speed between consecutive samples.
//
// A trajectory is either Empty or Seeded. Seeding stores the first sample
// with zero speed; every later append computes the speed between the new
// sample and its immediate predecessor:
//
//	d     = H * pi * sqrt(dLat^2 + dLon^2) / 180   (km)
//	speed = round(d / dt, 3)                       (km/s)
//
// where H is the orbit radius (Earth radius plus altitude). This is a
// small-angle planar approximation, valid only for closely spaced samples.
// It is not a great-circle distance and existing outputs depend on it.
//
// The package holds no state between calls. Append takes the prior
// trajectory and returns a new one; a rejected sample leaves the input
// untouched.
package trajectory
