package sampler

import (
	"encoding/json"
	"strconv"
)

// Payload is the flat feed object the sampler consumes. Fields are kept raw
// so that string and number encodings are both accepted and a missing field
// can be told apart from a zero one.
type Payload struct {
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// NewPayload builds a numeric payload. Used by sources that compute positions
// locally rather than receiving them over the wire.
func NewPayload(lat, lon float64, ts int64) Payload {
	return Payload{
		Latitude:  json.RawMessage(strconv.FormatFloat(lat, 'f', -1, 64)),
		Longitude: json.RawMessage(strconv.FormatFloat(lon, 'f', -1, 64)),
		Timestamp: json.RawMessage(strconv.FormatInt(ts, 10)),
	}
}
