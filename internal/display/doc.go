// Package display renders trajectories for people and maps.
//
// It provides the textual status line, GeoJSON output, a websocket hub that
// streams live updates, and the HTTP router that serves them together with
// health and metrics endpoints.
package display
