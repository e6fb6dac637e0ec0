package sampler

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rickgao/orbit-tracker/internal/model"
)

// Parse maps a payload to a PositionSample with Speed left at 0.
func Parse(p Payload) (model.PositionSample, error) {
	lat, err := parseCoordinate("latitude", p.Latitude, 90)
	if err != nil {
		return model.PositionSample{}, err
	}
	lon, err := parseCoordinate("longitude", p.Longitude, 180)
	if err != nil {
		return model.PositionSample{}, err
	}
	ts, err := parseTimestamp(p.Timestamp)
	if err != nil {
		return model.PositionSample{}, err
	}

	return model.PositionSample{
		Latitude:  lat,
		Longitude: lon,
		Timestamp: ts,
	}, nil
}

// ParseJSON decodes a flat JSON object and parses it.
func ParseJSON(data []byte) (model.PositionSample, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return model.PositionSample{}, &MalformedSampleError{
			Field:  "payload",
			Reason: err.Error(),
		}
	}
	return Parse(p)
}

func parseCoordinate(field string, raw json.RawMessage, limit float64) (float64, error) {
	text, err := scalarText(field, raw)
	if err != nil {
		return 0, err
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &MalformedSampleError{Field: field, Value: strconv.Quote(text), Reason: "not a finite number"}
	}
	if v < -limit || v > limit {
		return 0, &MalformedSampleError{
			Field:  field,
			Value:  text,
			Reason: "out of range [" + strconv.FormatFloat(-limit, 'f', -1, 64) + ", " + strconv.FormatFloat(limit, 'f', -1, 64) + "]",
		}
	}
	return v, nil
}

func parseTimestamp(raw json.RawMessage) (int64, error) {
	const field = "timestamp"

	text, err := scalarText(field, raw)
	if err != nil {
		return 0, err
	}

	ts, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Accept integral floats such as 1.7e9.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
			return 0, &MalformedSampleError{Field: field, Value: strconv.Quote(text), Reason: "not an integer epoch second"}
		}
		ts = int64(f)
	}
	if ts < 0 {
		return 0, &MalformedSampleError{Field: field, Value: text, Reason: "before the Unix epoch"}
	}
	return ts, nil
}

// scalarText unwraps a raw JSON number or string into its trimmed text.
func scalarText(field string, raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", &MalformedSampleError{Field: field, Reason: "missing"}
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", &MalformedSampleError{Field: field, Value: string(raw), Reason: "invalid string"}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", &MalformedSampleError{Field: field, Reason: "empty"}
		}
		return s, nil
	}

	switch raw[0] {
	case '{', '[', 't', 'f':
		return "", &MalformedSampleError{Field: field, Value: string(raw), Reason: "not a number or string"}
	}
	return string(raw), nil
}
