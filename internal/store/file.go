package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rickgao/orbit-tracker/internal/model"
)

// File stores each trajectory as <dir>/<object>.json.
type File struct {
	dir string
	mu  sync.Mutex
}

// NewFile creates the directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(objectID string) string {
	return filepath.Join(f.dir, objectID+".json")
}

func (f *File) Load(_ context.Context, objectID string) (model.Trajectory, error) {
	data, err := os.ReadFile(f.path(objectID))
	if errors.Is(err, fs.ErrNotExist) {
		return model.Trajectory{}, nil
	}
	if err != nil {
		return model.Trajectory{}, fmt.Errorf("read trajectory %s: %w", objectID, err)
	}

	var t model.Trajectory
	if err := json.Unmarshal(data, &t); err != nil {
		return model.Trajectory{}, fmt.Errorf("decode trajectory %s: %w", objectID, err)
	}
	return t, nil
}

// Save writes to a temp file in the same directory and renames it over the
// previous document, so readers never see a partial write.
func (f *File) Save(_ context.Context, objectID string, t model.Trajectory) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trajectory %s: %w", objectID, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, objectID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write trajectory %s: %w", objectID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync trajectory %s: %w", objectID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close trajectory %s: %w", objectID, err)
	}
	if err := os.Rename(tmp.Name(), f.path(objectID)); err != nil {
		return fmt.Errorf("replace trajectory %s: %w", objectID, err)
	}
	return nil
}
