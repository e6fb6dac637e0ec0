// Package database opens the PostgreSQL pool used by the trajectory store
// and owns its schema.
package database
