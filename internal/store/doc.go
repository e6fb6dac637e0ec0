// Package store persists trajectories per tracked object.
//
// Three backends implement Store:
//   - Memory: process-local, lost on restart
//   - File: one JSON document per object, replaced atomically on save
//   - Postgres: append-only trajectory_samples table
//
// Trajectories only ever grow, so Save may assume the stored trajectory is a
// prefix of the one being saved.
package store
