package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rickgao/orbit-tracker/internal/sampler"
)

// positionResponse covers both the nested open-notify shape and flat feeds.
type positionResponse struct {
	Message     string          `json:"message"`
	Timestamp   json.RawMessage `json:"timestamp"`
	Latitude    json.RawMessage `json:"latitude"`
	Longitude   json.RawMessage `json:"longitude"`
	ISSPosition *struct {
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	} `json:"iss_position"`
}

// FeedMessageError is returned when the feed envelope reports a failure.
type FeedMessageError struct {
	Message string
}

func (e *FeedMessageError) Error() string {
	return fmt.Sprintf("feed reported %q", e.Message)
}

// Fetch retrieves the current position and flattens it into a payload.
func (c *Client) Fetch(ctx context.Context) (sampler.Payload, error) {
	body, err := c.doWithRetry(ctx)
	if err != nil {
		return sampler.Payload{}, fmt.Errorf("get position: %w", err)
	}

	var resp positionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return sampler.Payload{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return resp.toPayload()
}

func (r positionResponse) toPayload() (sampler.Payload, error) {
	if r.Message != "" && r.Message != "success" {
		return sampler.Payload{}, &FeedMessageError{Message: r.Message}
	}

	p := sampler.Payload{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timestamp: r.Timestamp,
	}
	if r.ISSPosition != nil {
		p.Latitude = r.ISSPosition.Latitude
		p.Longitude = r.ISSPosition.Longitude
	}
	return p, nil
}
