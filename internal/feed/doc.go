// Package feed defines where raw position payloads come from.
//
// Sources:
//   - http: a JSON position endpoint polled through internal/api
//   - tle:  SGP4 propagation of a two-line element set (internal/orbit)
//   - nmea: replay of RMC fixes from a recorded NMEA log, one per fetch
package feed
