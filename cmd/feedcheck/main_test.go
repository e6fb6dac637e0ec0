package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rickgao/orbit-tracker/internal/config"
)

func TestResolveObject(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.yaml")
	yaml := `
orbit:
  earth_radius_km: 6371
objects:
  - id: iss
    altitude_km: 408
    feed:
      type: http
      url: http://localhost:9000/iss.json
  - id: hubble
    altitude_km: 535
    feed:
      type: nmea
      path: /var/log/hubble.nmea
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Run("defaults", func(t *testing.T) {
		obj, _, radius, err := resolveObject("", "iss", "")
		if err != nil {
			t.Fatalf("resolveObject() error = %v", err)
		}
		if obj.Feed.URL != config.DefaultFeedURL || radius != 6779 {
			t.Errorf("obj = %+v, radius = %v", obj, radius)
		}
	})

	t.Run("from config", func(t *testing.T) {
		obj, _, radius, err := resolveObject(path, "hubble", "")
		if err != nil {
			t.Fatalf("resolveObject() error = %v", err)
		}
		if obj.Feed.Type != "nmea" || radius != 6906 {
			t.Errorf("obj = %+v, radius = %v", obj, radius)
		}
	})

	t.Run("url override", func(t *testing.T) {
		obj, _, _, err := resolveObject(path, "hubble", "http://localhost:9001/now.json")
		if err != nil {
			t.Fatalf("resolveObject() error = %v", err)
		}
		if obj.Feed.Type != "http" || obj.Feed.URL != "http://localhost:9001/now.json" {
			t.Errorf("feed = %+v", obj.Feed)
		}
	})

	t.Run("unknown object", func(t *testing.T) {
		if _, _, _, err := resolveObject(path, "mir", ""); err == nil {
			t.Error("resolveObject() expected error")
		}
	})
}
