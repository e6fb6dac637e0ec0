// Package model defines shared data types used across the orbit tracker.
//
// Conventions:
//   - Latitude/longitude: float64 decimal degrees
//   - Timestamps: int64 seconds since Unix epoch (the feed's resolution)
//   - Speed: float64 km/s, rounded to 3 decimals, 0 on the first sample
package model
