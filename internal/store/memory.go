package store

import (
	"context"
	"sync"

	"github.com/rickgao/orbit-tracker/internal/model"
)

// Memory is a Store held in a map. Safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	trajs map[string]model.Trajectory
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{trajs: make(map[string]model.Trajectory)}
}

func (m *Memory) Load(_ context.Context, objectID string) (model.Trajectory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trajs[objectID].Clone(), nil
}

func (m *Memory) Save(_ context.Context, objectID string, t model.Trajectory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trajs[objectID] = t.Clone()
	return nil
}
