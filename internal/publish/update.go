package publish

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/rickgao/orbit-tracker/internal/model"
)

// Update is emitted once per accepted sample.
type Update struct {
	TickID uuid.UUID            `json:"tick_id"`
	Object string               `json:"object"`
	Sample model.PositionSample `json:"sample"`
	Length int                  `json:"length"` // trajectory length after the append
	Status string               `json:"status"` // human-readable status line
}

// Marshal encodes the update as JSON.
func (u Update) Marshal() ([]byte, error) {
	return json.Marshal(u)
}

// Publisher delivers updates to one sink.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, u Update) error
	Close() error
}
