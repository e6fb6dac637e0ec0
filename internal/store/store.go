package store

import (
	"context"

	"github.com/rickgao/orbit-tracker/internal/model"
)

// Store loads and saves trajectories by object id.
// Loading an object that was never saved returns an empty trajectory.
type Store interface {
	Load(ctx context.Context, objectID string) (model.Trajectory, error)
	Save(ctx context.Context, objectID string, t model.Trajectory) error
}
